// Package linearize resamples spectra onto a uniform wavelength grid.
//
// The fitted dispersion model maps the native pixel grid to a slightly
// non-uniform wavelength axis. An interpolating spline through
// (wavelength, intensity) is evaluated on an evenly spaced grid with the same
// length and end points, and a short median filter removes ringing next to
// steep features.
package linearize

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/calib/dispersion"
	"github.com/cwbudde/algo-wavecal/dsp/core"
	"github.com/cwbudde/algo-wavecal/dsp/filter/median"
	"github.com/cwbudde/algo-wavecal/dsp/interp"
)

var errNotMonotonic = errors.New("wavelength axis is not monotonic")

// Spectrum is a linearized spectrum with its linear axis description.
type Spectrum struct {
	Wavelength []float64
	Flux       []float64
	// CRPIX is the 1-based reference pixel, CRVAL its wavelength and CDELT
	// the wavelength step per pixel.
	CRPIX float64
	CRVAL float64
	CDELT float64
}

// Linearizer holds the resampling parameters.
type Linearizer struct {
	mode   interp.Mode
	kernel int
}

// Option configures a Linearizer.
type Option func(*Linearizer)

// WithMode selects the interpolation method.
func WithMode(m interp.Mode) Option {
	return func(l *Linearizer) {
		l.mode = m
	}
}

// WithMedianKernel sets the post-resample median filter length. Values
// below 2 disable the filter.
func WithMedianKernel(k int) Option {
	return func(l *Linearizer) {
		l.kernel = k
	}
}

// New returns a Linearizer using a cubic spline and a length-3 median.
func New(opts ...Option) *Linearizer {
	l := &Linearizer{mode: interp.ModeCubic, kernel: 3}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Apply linearizes s with model. The output has the same length as s and an
// ascending, exactly uniform wavelength axis.
func (l *Linearizer) Apply(model *dispersion.Model, s *calib.Spectrum) (*Spectrum, error) {
	if model == nil {
		return nil, calib.ErrNoSolution
	}
	if err := s.Validate("linearize"); err != nil {
		return nil, err
	}
	fail := func(err error) error {
		return &calib.ComputationError{SpectrumID: s.ID(), Op: "linearize", Err: err}
	}

	native := model.Apply(s.PixelAxis())
	flux := s.Samples()
	switch core.Monotonic(native) {
	case 1:
	case -1:
		native = core.Reversed(native)
		flux = core.Reversed(flux)
	default:
		if len(native) > 1 {
			return nil, fail(errNotMonotonic)
		}
	}

	n := len(native)
	grid := core.Linspace(native[0], native[n-1], n)
	resampled, err := interp.Resample(native, flux, grid, l.mode)
	if err != nil {
		return nil, fail(err)
	}
	if l.kernel >= 2 {
		k := l.kernel | 1
		if resampled, err = median.Filter(resampled, k); err != nil {
			return nil, fail(err)
		}
	}

	out := &Spectrum{Wavelength: grid, Flux: resampled, CRPIX: 1, CRVAL: grid[0]}
	if n > 1 {
		out.CDELT = (grid[n-1] - grid[0]) / float64(n-1)
	}
	return out, nil
}

// PixelToWavelength returns the linear-axis wavelength of a 1-based pixel.
func (s *Spectrum) PixelToWavelength(p float64) float64 {
	return s.CRVAL + (p-s.CRPIX)*s.CDELT
}

// String describes the axis for logs.
func (s *Spectrum) String() string {
	return fmt.Sprintf("linear axis: crval=%.4f cdelt=%.6f n=%d", s.CRVAL, s.CDELT, len(s.Wavelength))
}
