package calib

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Header holds per-exposure metadata keywords as trimmed strings.
type Header map[string]string

// Lookup returns the trimmed value for key.
func (h Header) Lookup(key string) (string, bool) {
	v, ok := h[key]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(v), "'")), true
}

// Has reports whether every key is present.
func (h Header) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := h[k]; !ok {
			return false
		}
	}
	return true
}

// Float parses key as a float64.
func (h Header) Float(key string) (float64, error) {
	v, ok := h.Lookup(key)
	if !ok {
		return 0, &ConfigurationError{Key: key}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not numeric", ErrConfiguration, key, v)
	}
	return f, nil
}

// Clone returns a copy of h.
func (h Header) Clone() Header {
	out := make(Header, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Keys returns the keywords in sorted order.
func (h Header) Keys() []string {
	return slices.Sorted(maps.Keys(h))
}

// Spectrum is an immutable 1-D intensity sequence indexed by 1-based pixel.
type Spectrum struct {
	id      string
	samples []float64
	header  Header
}

// NewSpectrum copies samples and header into a new Spectrum.
func NewSpectrum(id string, samples []float64, header Header) *Spectrum {
	s := make([]float64, len(samples))
	copy(s, samples)
	if header == nil {
		header = Header{}
	}
	return &Spectrum{id: id, samples: s, header: header.Clone()}
}

// ID returns the spectrum identity used in diagnostics.
func (s *Spectrum) ID() string { return s.id }

// Len returns the number of samples.
func (s *Spectrum) Len() int { return len(s.samples) }

// At returns the intensity at 1-based pixel p.
func (s *Spectrum) At(p int) float64 { return s.samples[p-1] }

// Samples returns a copy of the intensities.
func (s *Spectrum) Samples() []float64 {
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}

// View returns the intensities without copying. Callers must not modify it.
func (s *Spectrum) View() []float64 { return s.samples }

// Header returns a copy of the exposure metadata.
func (s *Spectrum) Header() Header { return s.header.Clone() }

// PixelAxis returns the 1-based pixel coordinates 1..Len.
func (s *Spectrum) PixelAxis() []float64 {
	out := make([]float64, len(s.samples))
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

// Validate reports empty or non-finite spectra as computation errors.
func (s *Spectrum) Validate(op string) error {
	if len(s.samples) == 0 {
		return &ComputationError{SpectrumID: s.id, Op: op, Err: fmt.Errorf("empty spectrum")}
	}
	for i, v := range s.samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ComputationError{SpectrumID: s.id, Op: op, Err: fmt.Errorf("non-finite sample at pixel %d", i+1)}
		}
	}
	return nil
}
