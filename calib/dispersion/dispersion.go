package dispersion

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/dsp/core"
	"gonum.org/v1/gonum/mat"
)

// BasisChebyshev names the only supported basis.
const BasisChebyshev = "chebyshev"

var (
	errDegenerateDomain = errors.New("dispersion: degenerate pixel domain")
	errNonFinite        = errors.New("dispersion: non-finite correspondence")
)

// Model is a fitted Chebyshev series mapping pixel to wavelength.
type Model struct {
	Basis        string    `json:"basis"`
	Degree       int       `json:"degree"`
	Coefficients []float64 `json:"coefficients"`
	DomainMin    float64   `json:"domain_min"`
	DomainMax    float64   `json:"domain_max"`
}

type config struct {
	degree    int
	minPoints int
	domain    [2]float64
	hasDomain bool
	label     string
}

// Option configures Fit.
type Option func(*config)

// WithDegree sets the polynomial degree.
func WithDegree(d int) Option {
	return func(c *config) {
		if d >= 1 {
			c.degree = d
		}
	}
}

// WithMinPoints sets the minimum number of pairs required.
func WithMinPoints(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.minPoints = n
		}
	}
}

// WithDomain fixes the pixel interval mapped onto [-1, 1]. By default the
// range of the fitted pixels is used.
func WithDomain(lo, hi float64) Option {
	return func(c *config) {
		c.domain = [2]float64{lo, hi}
		c.hasDomain = true
	}
}

// WithLabel names the lamp in computation errors.
func WithLabel(id string) Option {
	return func(c *config) {
		c.label = id
	}
}

// Fit solves for the model through the given correspondences. It fails with
// *calib.InsufficientDataError when either side holds fewer than the
// required points or the sides differ in length.
func Fit(pixels, wavelengths []float64, opts ...Option) (*Model, error) {
	cfg := config{degree: 3, minPoints: 4}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	required := max(cfg.minPoints, cfg.degree+1)
	if len(pixels) != len(wavelengths) || len(pixels) < required {
		return nil, &calib.InsufficientDataError{
			Pixel:      len(pixels),
			Wavelength: len(wavelengths),
			Required:   required,
		}
	}
	for i := range pixels {
		if !finite(pixels[i]) || !finite(wavelengths[i]) {
			return nil, &calib.ComputationError{SpectrumID: cfg.label, Op: "fit", Err: errNonFinite}
		}
	}

	lo, hi := core.MinMax(pixels)
	if cfg.hasDomain {
		lo, hi = cfg.domain[0], cfg.domain[1]
	}
	if !(hi > lo) {
		return nil, &calib.ComputationError{SpectrumID: cfg.label, Op: "fit", Err: errDegenerateDomain}
	}

	m := &Model{Basis: BasisChebyshev, Degree: cfg.degree, DomainMin: lo, DomainMax: hi}

	n, k := len(pixels), cfg.degree+1
	a := mat.NewDense(n, k, nil)
	b := mat.NewVecDense(n, slices.Clone(wavelengths))
	row := make([]float64, k)
	for i, p := range pixels {
		chebyshevRow(row, m.normalize(p))
		a.SetRow(i, row)
	}

	var qr mat.QR
	qr.Factorize(a)

	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, b); err != nil {
		return nil, &calib.ComputationError{SpectrumID: cfg.label, Op: "fit", Err: fmt.Errorf("least squares: %w", err)}
	}

	m.Coefficients = make([]float64, k)
	for i := range k {
		m.Coefficients[i] = coef.AtVec(i)
	}
	return m, nil
}

// chebyshevRow fills row with T_0(u)..T_len-1(u).
func chebyshevRow(row []float64, u float64) {
	row[0] = 1
	if len(row) > 1 {
		row[1] = u
	}
	for j := 2; j < len(row); j++ {
		row[j] = 2*u*row[j-1] - row[j-2]
	}
}

func (m *Model) normalize(p float64) float64 {
	return (2*p - (m.DomainMin + m.DomainMax)) / (m.DomainMax - m.DomainMin)
}

// At evaluates the model at a 1-based pixel using Clenshaw recurrence.
func (m *Model) At(pixel float64) float64 {
	u := m.normalize(pixel)
	var b1, b2 float64
	for j := len(m.Coefficients) - 1; j >= 1; j-- {
		b1, b2 = 2*u*b1-b2+m.Coefficients[j], b1
	}
	if len(m.Coefficients) == 0 {
		return 0
	}
	return u*b1 - b2 + m.Coefficients[0]
}

// Apply evaluates the model at every pixel.
func (m *Model) Apply(pixels []float64) []float64 {
	out := make([]float64, len(pixels))
	for i, p := range pixels {
		out[i] = m.At(p)
	}
	return out
}

// Dispersion returns the mean absolute wavelength step per pixel across the
// fitted domain.
func (m *Model) Dispersion() float64 {
	span := m.DomainMax - m.DomainMin
	if span == 0 {
		return 0
	}
	return math.Abs(m.At(m.DomainMax)-m.At(m.DomainMin)) / span
}

// Clone returns a deep copy of m.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	c := *m
	c.Coefficients = slices.Clone(m.Coefficients)
	return &c
}

// Equal reports whether two models have identical parameters.
func (m *Model) Equal(o *Model) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.Basis == o.Basis && m.Degree == o.Degree &&
		m.DomainMin == o.DomainMin && m.DomainMax == o.DomainMax &&
		slices.Equal(m.Coefficients, o.Coefficients)
}

// String formats the model for logs.
func (m *Model) String() string {
	return fmt.Sprintf("%s(degree=%d, domain=[%g, %g], c=%v)", m.Basis, m.Degree, m.DomainMin, m.DomainMax, m.Coefficients)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
