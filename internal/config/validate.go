package config

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-wavecal/dsp/interp"
	"github.com/cwbudde/algo-wavecal/dsp/window"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateInstrument(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateFit(); err != nil {
		return err
	}
	if err := c.validateEvaluation(); err != nil {
		return err
	}
	if _, err := interp.ParseMode(c.Linearize.Method); err != nil {
		return fmt.Errorf("linearize.method: %w", err)
	}
	if c.Linearize.MedianKernel < 1 || c.Linearize.MedianKernel%2 == 0 {
		return errors.New("linearize.median_kernel must be a positive odd number")
	}
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateInstrument() error {
	in := c.Instrument
	if len(in.Gratings) == 0 {
		return errors.New("instrument.gratings must list at least one grating")
	}
	for name, freq := range in.Gratings {
		if freq <= 0 {
			return fmt.Errorf("instrument.gratings.%s must be positive", name)
		}
	}
	if in.HalfField <= 0 || in.HalfField >= 90 {
		return errors.New("instrument.half_field must be between 0 and 90 degrees")
	}
	if in.PixelPitch <= 0 || in.FocalLength <= 0 {
		return errors.New("instrument.pixel_pitch and instrument.focal_length must be positive")
	}
	if in.AngleTolerance < 0 {
		return errors.New("instrument.angle_tolerance must not be negative")
	}
	return nil
}

func (c *Config) validateDetection() error {
	d := c.Detection
	if d.Threshold < 0 || d.Threshold >= 1 {
		return errors.New("detection.threshold must be in [0, 1)")
	}
	if d.Order < 1 {
		return errors.New("detection.order must be at least 1")
	}
	if d.AsymmetryRatio <= 1 {
		return errors.New("detection.asymmetry_ratio must be greater than 1")
	}
	return nil
}

func (c *Config) validateFit() error {
	if c.Fit.Degree < 1 {
		return errors.New("fit.degree must be at least 1")
	}
	if c.Fit.MinPoints < c.Fit.Degree+1 {
		return fmt.Errorf("fit.min_points must be at least degree+1 (%d)", c.Fit.Degree+1)
	}
	return nil
}

func (c *Config) validateEvaluation() error {
	e := c.Evaluation
	if e.Sigma <= 0 || e.FindMoreSigma <= 0 {
		return errors.New("evaluation.sigma and evaluation.find_more_sigma must be positive")
	}
	if e.Iterations < 1 || e.FindMoreIterations < 1 {
		return errors.New("evaluation.iterations and evaluation.find_more_iterations must be at least 1")
	}
	if e.FloorPixels < 0 {
		return errors.New("evaluation.floor_pixels must not be negative")
	}
	if _, err := window.ParseType(e.Taper); err != nil {
		return fmt.Errorf("evaluation.taper: %w", err)
	}
	if e.TaperAlpha < 0 || e.TaperAlpha > 1 {
		return errors.New("evaluation.taper_alpha must be within [0, 1]")
	}
	return nil
}
