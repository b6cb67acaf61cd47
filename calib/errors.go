package calib

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates an unknown grating or a missing instrument key.
	ErrConfiguration = errors.New("calib: configuration error")
	// ErrInsufficientData indicates too few or unbalanced correspondences.
	ErrInsufficientData = errors.New("calib: insufficient data")
	// ErrNoSolution indicates that no dispersion model has been fitted yet.
	ErrNoSolution = errors.New("calib: no wavelength solution")
	// ErrIncompatibleSolution indicates a solution cannot be reused for an exposure.
	ErrIncompatibleSolution = errors.New("calib: incompatible wavelength solution")
	// ErrComputation indicates a numerical failure on a specific spectrum.
	ErrComputation = errors.New("calib: computation failed")
	// ErrAutomaticUnsupported is returned for automatic line identification,
	// which is not implemented.
	ErrAutomaticUnsupported = errors.New("calib: automatic wavelength solution is not supported")
)

// Side names one half of a correspondence.
type Side int

const (
	// SidePixel is the detected-line (pixel space) side.
	SidePixel Side = iota
	// SideWavelength is the catalog (wavelength space) side.
	SideWavelength
)

func (s Side) String() string {
	switch s {
	case SidePixel:
		return "pixel"
	case SideWavelength:
		return "wavelength"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// ConfigurationError reports the offending instrument key.
type ConfigurationError struct {
	Key   string
	Value string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("calib: configuration error: missing %s", e.Key)
	}
	return fmt.Sprintf("calib: configuration error: unknown %s %q", e.Key, e.Value)
}

// Is matches [ErrConfiguration].
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InsufficientDataError reports how many points each side holds.
type InsufficientDataError struct {
	Pixel      int
	Wavelength int
	Required   int
}

func (e *InsufficientDataError) Error() string {
	side, n := e.Missing()
	if n == 1 {
		return fmt.Sprintf("calib: insufficient data: 1 %s point is missing (pixel=%d wavelength=%d required=%d)",
			side, e.Pixel, e.Wavelength, e.Required)
	}
	return fmt.Sprintf("calib: insufficient data: %d %s points are missing (pixel=%d wavelength=%d required=%d)",
		n, side, e.Pixel, e.Wavelength, e.Required)
}

// Is matches [ErrInsufficientData].
func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// Missing returns the side lacking points and how many it lacks. Below the
// required count the shorter side is measured against Required; otherwise it
// is measured against the longer side.
func (e *InsufficientDataError) Missing() (Side, int) {
	side := SidePixel
	short, long := e.Pixel, e.Wavelength
	if e.Wavelength < e.Pixel {
		side = SideWavelength
		short, long = e.Wavelength, e.Pixel
	}
	if short < e.Required {
		return side, e.Required - short
	}
	return side, long - short
}

// ComputationError attaches spectrum identity to a numerical failure.
type ComputationError struct {
	SpectrumID string
	Op         string
	Err        error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("calib: %s failed on spectrum %q: %v", e.Op, e.SpectrumID, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// Is matches [ErrComputation].
func (e *ComputationError) Is(target error) bool { return target == ErrComputation }
