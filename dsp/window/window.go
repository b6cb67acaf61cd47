// Package window provides edge tapers applied to spectra before
// correlation, so that the abrupt ends of a finite spectrum do not dominate
// the correlation peak.
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeTukey
	TypeWelch
)

var typeNames = map[string]Type{
	"rectangular": TypeRectangular,
	"none":        TypeRectangular,
	"hann":        TypeHann,
	"tukey":       TypeTukey,
	"welch":       TypeWelch,
}

// ParseType maps a configuration name to a window type.
func ParseType(name string) (Type, error) {
	t, ok := typeNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("window: unknown type %q", name)
	}
	return t, nil
}

// String returns the configuration name of t.
func (t Type) String() string {
	switch t {
	case TypeHann:
		return "hann"
	case TypeTukey:
		return "tukey"
	case TypeWelch:
		return "welch"
	default:
		return "rectangular"
	}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha float64
}

func defaultConfig() config {
	return config{alpha: 0.1}
}

// WithAlpha sets the tapered fraction for Tukey windows, clamped to [0,1].
func WithAlpha(v float64) Option {
	return func(c *config) {
		c.alpha = min(max(v, 0), 1)
	}
}

// Generate returns symmetric window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length), cfg)
	}
	return out
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 || t == TypeRectangular {
		return
	}
	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

func evalWindow(t Type, x float64, cfg config) float64 {
	x = min(max(x, 0), 1)
	switch t {
	case TypeHann:
		return hannAt(x)
	case TypeTukey:
		return tukeyAt(x, cfg.alpha)
	case TypeWelch:
		d := x - 0.5
		return 1 - 4*d*d
	default:
		return 1
	}
}

func hannAt(x float64) float64 {
	return 0.5 - 0.5*math.Cos(2*math.Pi*x)
}

func samplePosition(n, size int) float64 {
	if size <= 1 {
		return 0
	}
	return float64(n) / float64(size-1)
}

func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}
	if alpha >= 1 {
		return hannAt(x)
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}
