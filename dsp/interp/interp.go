package interp

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// ErrTooFewPoints indicates fewer samples than the method needs.
var ErrTooFewPoints = errors.New("interp: too few points")

// Mode selects the interpolation method.
type Mode int

const (
	// ModeCubic is a not-a-knot cubic spline passing through every sample.
	ModeCubic Mode = iota
	// ModeAkima is an Akima spline.
	ModeAkima
	// ModeLinear is piecewise linear interpolation.
	ModeLinear
)

func (m Mode) String() string {
	switch m {
	case ModeCubic:
		return "cubic"
	case ModeAkima:
		return "akima"
	case ModeLinear:
		return "linear"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a method name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cubic", "spline":
		return ModeCubic, nil
	case "akima":
		return ModeAkima, nil
	case "linear":
		return ModeLinear, nil
	default:
		return 0, fmt.Errorf("interp: unknown mode %q", name)
	}
}

func (m Mode) minPoints() int {
	switch m {
	case ModeCubic:
		return 4
	case ModeAkima:
		return 2
	default:
		return 2
	}
}

func (m Mode) predictor() interp.FittablePredictor {
	switch m {
	case ModeAkima:
		return &interp.AkimaSpline{}
	case ModeLinear:
		return &interp.PiecewiseLinear{}
	default:
		return &interp.NotAKnotCubic{}
	}
}

// Spline is a fitted interpolant over strictly increasing abscissae.
type Spline struct {
	mode Mode
	fp   interp.FittablePredictor
	xMin float64
	xMax float64
}

// Fit builds an interpolant through (xs, ys). xs must be strictly increasing.
func Fit(xs, ys []float64, mode Mode) (*Spline, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("interp: length mismatch: %d vs %d", len(xs), len(ys))
	}
	if len(xs) < mode.minPoints() {
		return nil, fmt.Errorf("%w: %s needs %d, got %d", ErrTooFewPoints, mode, mode.minPoints(), len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("interp: abscissae not strictly increasing at index %d", i)
		}
	}
	fp := mode.predictor()
	if err := fp.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("interp: %s fit: %w", mode, err)
	}
	return &Spline{mode: mode, fp: fp, xMin: xs[0], xMax: xs[len(xs)-1]}, nil
}

// At evaluates the interpolant at x. Queries outside the fitted range are
// clamped to the end points.
func (s *Spline) At(x float64) float64 {
	if x < s.xMin {
		x = s.xMin
	}
	if x > s.xMax {
		x = s.xMax
	}
	return s.fp.Predict(x)
}

// Mode returns the method used by the interpolant.
func (s *Spline) Mode() Mode { return s.mode }

// Resample fits (xs, ys) and evaluates the interpolant at every xq.
func Resample(xs, ys, xq []float64, mode Mode) ([]float64, error) {
	s, err := Fit(xs, ys, mode)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(xq))
	for i, x := range xq {
		out[i] = s.At(x)
	}
	return out, nil
}

// ParabolicVertex returns the offset, in samples relative to the middle
// sample, of the vertex of the parabola through (-1, ym1), (0, y0), (1, y1).
// Returns 0 when the three samples are collinear.
func ParabolicVertex(ym1, y0, y1 float64) float64 {
	den := ym1 - 2*y0 + y1
	if den == 0 {
		return 0
	}
	return 0.5 * (ym1 - y1) / den
}
