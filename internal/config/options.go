package config

import (
	"maps"

	"github.com/cwbudde/algo-wavecal/calib/dispersion"
	"github.com/cwbudde/algo-wavecal/calib/evaluate"
	"github.com/cwbudde/algo-wavecal/calib/geometry"
	"github.com/cwbudde/algo-wavecal/calib/lines"
	"github.com/cwbudde/algo-wavecal/calib/linearize"
	"github.com/cwbudde/algo-wavecal/dsp/interp"
	"github.com/cwbudde/algo-wavecal/dsp/window"
)

// GeometryOptions returns the instrument constants as geometry options.
func (c *Config) GeometryOptions() []geometry.Option {
	in := c.Instrument
	return []geometry.Option{geometry.WithInstrument(geometry.Instrument{
		Gratings:       maps.Clone(in.Gratings),
		HalfField:      in.HalfField,
		BlueCorrection: in.BlueCorrection,
		RedCorrection:  in.RedCorrection,
		ReferencePixel: in.ReferencePixel,
		PixelPitch:     in.PixelPitch,
		FocalLength:    in.FocalLength,
	})}
}

// Detector builds the configured line detector.
func (c *Config) Detector() *lines.Detector {
	return lines.New(
		lines.WithThreshold(c.Detection.Threshold),
		lines.WithOrder(c.Detection.Order),
		lines.WithAsymmetryRatio(c.Detection.AsymmetryRatio),
	)
}

// FitOptions returns the configured fit options.
func (c *Config) FitOptions() []dispersion.Option {
	return []dispersion.Option{
		dispersion.WithDegree(c.Fit.Degree),
		dispersion.WithMinPoints(c.Fit.MinPoints),
	}
}

// Evaluator builds the configured evaluator.
func (c *Config) Evaluator() *evaluate.Evaluator {
	e := c.Evaluation
	return evaluate.New(
		evaluate.WithSigma(e.Sigma, e.Iterations),
		evaluate.WithFindMoreSigma(e.FindMoreSigma, e.FindMoreIterations),
		evaluate.WithFloor(e.FloorPixels),
	)
}

// OffsetOptions returns the taper used when correlating against a reference
// lamp. The taper name was checked by Validate.
func (c *Config) OffsetOptions() []evaluate.OffsetOption {
	t, err := window.ParseType(c.Evaluation.Taper)
	if err != nil {
		t = window.TypeTukey
	}
	return []evaluate.OffsetOption{evaluate.WithTaper(t, c.Evaluation.TaperAlpha)}
}

// Linearizer builds the configured linearizer. The method was checked by
// Validate.
func (c *Config) Linearizer() *linearize.Linearizer {
	mode, err := interp.ParseMode(c.Linearize.Method)
	if err != nil {
		mode = interp.ModeCubic
	}
	return linearize.New(linearize.WithMode(mode), linearize.WithMedianKernel(c.Linearize.MedianKernel))
}
