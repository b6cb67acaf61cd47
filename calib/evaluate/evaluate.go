package evaluate

import (
	"math"
	"strconv"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/calib/dispersion"
	"github.com/cwbudde/algo-wavecal/calib/marks"
	"github.com/cwbudde/algo-wavecal/dsp/core"
	"github.com/cwbudde/algo-wavecal/stats/clip"
)

// Evaluation is the result of scoring one model.
type Evaluation struct {
	RMS      float64
	Points   int
	Rejected int

	// Per detected line, in input order.
	Pixels       []float64
	Predicted    []float64
	Matched      []float64
	Residuals    []float64
	RejectedMask []bool

	// DisplayMin and DisplayMax bound the residuals surviving a single
	// clipping round, for plotting.
	DisplayMin float64
	DisplayMax float64
}

// Comment returns the provenance text recorded with a solution.
func (e Evaluation) Comment() string {
	return "Lamp Solution RMSE = " + strconv.FormatFloat(e.RMS, 'g', -1, 64) +
		" Npoints = " + strconv.Itoa(e.Points) +
		", NRej = " + strconv.Itoa(e.Rejected)
}

// Trend classifies the change of RMS between two evaluations.
type Trend int

const (
	TrendNone Trend = iota
	TrendImproved
	TrendSame
	TrendWorse
)

func (t Trend) String() string {
	switch t {
	case TrendImproved:
		return "improved"
	case TrendSame:
		return "same"
	case TrendWorse:
		return "worse"
	default:
		return "none"
	}
}

// CompareRMS classifies current against previous; changes within 0.001
// count as the same. A NaN previous value yields TrendNone.
func CompareRMS(previous, current float64) (Trend, float64) {
	if math.IsNaN(previous) || math.IsNaN(current) {
		return TrendNone, 0
	}
	d := current - previous
	switch {
	case d > 0.001:
		return TrendWorse, d
	case d < -0.001:
		return TrendImproved, d
	default:
		return TrendSame, d
	}
}

// Evaluator holds the clipping parameters.
type Evaluator struct {
	sigma      float64
	iterations int
	moreSigma  float64
	moreIters  int
	floorPx    float64
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithSigma sets the clipping threshold and iteration count for Evaluate.
func WithSigma(sigma float64, iterations int) Option {
	return func(e *Evaluator) {
		if sigma > 0 {
			e.sigma = sigma
		}
		if iterations > 0 {
			e.iterations = iterations
		}
	}
}

// WithFindMoreSigma sets the clipping threshold and iteration count for
// FindMoreLines.
func WithFindMoreSigma(sigma float64, iterations int) Option {
	return func(e *Evaluator) {
		if sigma > 0 {
			e.moreSigma = sigma
		}
		if iterations > 0 {
			e.moreIters = iterations
		}
	}
}

// WithFloor sets the residual, in pixels, below which no line is rejected.
// It is scaled to Angstrom by the mean dispersion of the scored model.
func WithFloor(pixels float64) Option {
	return func(e *Evaluator) {
		if pixels >= 0 {
			e.floorPx = pixels
		}
	}
}

// New returns an Evaluator clipping at 2 sigma for 5 rounds, and at 2 sigma
// for 3 rounds when proposing lines. Residuals within 0.05 pixel are kept.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{sigma: 2, iterations: 5, moreSigma: 2, moreIters: 3, floorPx: 0.05}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// floor returns the clipping floor in Angstrom for model.
func (e *Evaluator) floor(model *dispersion.Model) float64 {
	return e.floorPx * model.Dispersion()
}

func (e *Evaluator) match(model *dispersion.Model, lines, catalog []float64) (pred, matched, resid []float64, err error) {
	if model == nil {
		return nil, nil, nil, calib.ErrNoSolution
	}
	if len(catalog) == 0 {
		return nil, nil, nil, &calib.ConfigurationError{Key: "line list"}
	}
	if len(lines) == 0 {
		return nil, nil, nil, &calib.InsufficientDataError{Pixel: 0, Wavelength: len(catalog), Required: 1}
	}

	pred = model.Apply(lines)
	matched = make([]float64, len(pred))
	resid = make([]float64, len(pred))
	for i, w := range pred {
		matched[i] = catalog[core.NearestIndex(catalog, w)]
		resid[i] = w - matched[i]
	}
	return pred, matched, resid, nil
}

// Evaluate scores model against the catalog using the detected line
// positions. A nil model fails with calib.ErrNoSolution.
func (e *Evaluator) Evaluate(model *dispersion.Model, lines, catalog []float64) (Evaluation, error) {
	pred, matched, resid, err := e.match(model, lines, catalog)
	if err != nil {
		return Evaluation{}, err
	}

	floor := e.floor(model)
	full := clip.Clip(resid, clip.WithSigma(e.sigma), clip.WithIterations(e.iterations), clip.WithFloor(floor))
	once := clip.Clip(resid, clip.WithSigma(e.sigma), clip.WithIterations(1), clip.WithFloor(floor))
	lo, hi := once.Bounds(resid)

	return Evaluation{
		RMS:          full.RMS(resid),
		Points:       len(resid),
		Rejected:     full.Removed,
		Pixels:       append([]float64(nil), lines...),
		Predicted:    pred,
		Matched:      matched,
		Residuals:    resid,
		RejectedMask: full.Rejected,
		DisplayMin:   lo,
		DisplayMax:   hi,
	}, nil
}

// FindMoreLines proposes correspondences for detected lines whose squared
// residual survives clipping and whose catalog wavelength is not in
// existing. Each wavelength is proposed at most once.
func (e *Evaluator) FindMoreLines(model *dispersion.Model, lines, catalog, existing []float64) ([]marks.Pair, error) {
	_, matched, resid, err := e.match(model, lines, catalog)
	if err != nil {
		return nil, err
	}

	sq := make([]float64, len(resid))
	for i, r := range resid {
		sq[i] = r * r
	}
	floor := e.floor(model)
	res := clip.Clip(sq, clip.WithSigma(e.moreSigma), clip.WithIterations(e.moreIters), clip.WithFloor(floor*floor))

	taken := make(map[float64]bool, len(existing))
	for _, w := range existing {
		taken[w] = true
	}
	var out []marks.Pair
	for i, w := range matched {
		if res.Rejected[i] || taken[w] {
			continue
		}
		taken[w] = true
		out = append(out, marks.Pair{Pixel: lines[i], Wavelength: w, Origin: marks.Auto})
	}
	return out, nil
}
