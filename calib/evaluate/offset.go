package evaluate

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-wavecal/dsp/conv"
	"github.com/cwbudde/algo-wavecal/dsp/core"
	"github.com/cwbudde/algo-wavecal/dsp/interp"
	"github.com/cwbudde/algo-wavecal/dsp/window"
	"gonum.org/v1/gonum/stat"
)

var errShortSpectrum = errors.New("evaluate: spectrum too short for correlation")

// Offset is the shift of a linearized lamp relative to a reference lamp.
// Positive values mean lamp features sit redward of the reference.
type Offset struct {
	// Lag is the refined shift in samples of the lamp grid.
	Lag float64
	// Angstrom is Lag times the lamp dispersion.
	Angstrom float64
	// Peak is the normalized correlation at the integer peak.
	Peak float64
}

type offsetConfig struct {
	taper window.Type
	alpha float64
}

// OffsetOption configures ReferenceOffset.
type OffsetOption func(*offsetConfig)

// WithTaper sets the edge taper applied before correlation.
func WithTaper(t window.Type, alpha float64) OffsetOption {
	return func(c *offsetConfig) {
		c.taper, c.alpha = t, alpha
	}
}

// ReferenceOffset cross-correlates a linearized lamp (uniform wave grid,
// flux) with a reference lamp spectrum resampled onto the same grid.
func ReferenceOffset(wave, flux, refWave, refFlux []float64, opts ...OffsetOption) (Offset, error) {
	cfg := offsetConfig{taper: window.TypeTukey, alpha: 0.1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := len(wave)
	if n < 4 || len(flux) != n || len(refWave) < 2 || len(refWave) != len(refFlux) {
		return Offset{}, errShortSpectrum
	}
	if core.Monotonic(refWave) < 0 {
		refWave = core.Reversed(refWave)
		refFlux = core.Reversed(refFlux)
	}

	ref, err := interp.Resample(refWave, refFlux, wave, interp.ModeLinear)
	if err != nil {
		return Offset{}, fmt.Errorf("evaluate: resample reference: %w", err)
	}
	lamp := slices.Clone(flux)
	prepare(lamp, cfg)
	prepare(ref, cfg)

	corr, err := conv.CorrelateNormalized(lamp, ref)
	if err != nil {
		return Offset{}, fmt.Errorf("evaluate: correlate: %w", err)
	}
	k, peak := conv.FindPeak(corr)
	lag := float64(conv.LagFromIndex(k, n))
	if k > 0 && k < len(corr)-1 {
		lag += interp.ParabolicVertex(corr[k-1], corr[k], corr[k+1])
	}

	cdelt := (wave[n-1] - wave[0]) / float64(n-1)
	return Offset{Lag: lag, Angstrom: lag * cdelt, Peak: peak}, nil
}

func prepare(x []float64, cfg offsetConfig) {
	mean := stat.Mean(x, nil)
	for i := range x {
		x[i] -= mean
	}
	window.Apply(cfg.taper, x, window.WithAlpha(cfg.alpha))
}
