package clip

import (
	"math"

	"github.com/cwbudde/algo-wavecal/dsp/core"
	"gonum.org/v1/gonum/stat"
)

// Center selects the central statistic used for deviations.
type Center int

const (
	// CenterMedian measures deviations from the median of survivors.
	CenterMedian Center = iota
	// CenterMean measures deviations from the mean of survivors.
	CenterMean
)

type config struct {
	sigma      float64
	iterations int
	center     Center
	floor      float64
}

// Option configures [Clip].
type Option func(*config)

// WithSigma sets the rejection threshold in standard deviations.
func WithSigma(sigma float64) Option {
	return func(cfg *config) {
		if sigma > 0 {
			cfg.sigma = sigma
		}
	}
}

// WithIterations sets the maximum number of clipping rounds.
// Zero or negative means iterate until no value is rejected.
func WithIterations(n int) Option {
	return func(cfg *config) {
		cfg.iterations = n
	}
}

// WithCenter selects the central statistic.
func WithCenter(c Center) Option {
	return func(cfg *config) {
		cfg.center = c
	}
}

// WithFloor sets an absolute deviation at or below which a value is never
// rejected. It keeps round-off level scatter from being clipped.
func WithFloor(floor float64) Option {
	return func(cfg *config) {
		if floor >= 0 {
			cfg.floor = floor
		}
	}
}

func defaultConfig() config {
	return config{sigma: 3, iterations: 5, center: CenterMedian}
}

// Result describes the outcome of a clipping run.
type Result struct {
	// Rejected[i] is true when x[i] was clipped.
	Rejected []bool
	// Kept and Removed count survivors and rejections.
	Kept    int
	Removed int
	// Center and Std are the statistics of the final round.
	Center float64
	Std    float64
	// Rounds is the number of rounds that ran.
	Rounds int
}

// Clip runs sigma clipping over x. NaN values are rejected up front.
func Clip(x []float64, opts ...Option) Result {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	rejected := make([]bool, len(x))
	for i, v := range x {
		if math.IsNaN(v) {
			rejected[i] = true
		}
	}

	res := Result{Rejected: rejected}
	kept := make([]float64, 0, len(x))
	for round := 0; cfg.iterations <= 0 || round < cfg.iterations; round++ {
		kept = kept[:0]
		for i, v := range x {
			if !rejected[i] {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			break
		}

		center := centerOf(kept, cfg.center)
		_, std := stat.PopMeanStdDev(kept, nil)
		res.Center, res.Std = center, std
		res.Rounds = round + 1

		limit := math.Max(cfg.sigma*std, cfg.floor)
		changed := false
		for i, v := range x {
			if rejected[i] {
				continue
			}
			if math.Abs(v-center) > limit {
				rejected[i] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for _, r := range rejected {
		if r {
			res.Removed++
		} else {
			res.Kept++
		}
	}
	return res
}

func centerOf(x []float64, c Center) float64 {
	if c == CenterMean {
		return stat.Mean(x, nil)
	}
	return core.Median(x)
}

// Survivors returns the values of x that were not rejected.
func (r Result) Survivors(x []float64) []float64 {
	out := make([]float64, 0, r.Kept)
	for i, v := range x {
		if i < len(r.Rejected) && !r.Rejected[i] {
			out = append(out, v)
		}
	}
	return out
}

// Bounds returns the smallest and largest surviving values.
func (r Result) Bounds(x []float64) (float64, float64) {
	return core.MinMax(r.Survivors(x))
}

// RMS returns the root mean square of the surviving values of x.
// Returns NaN when nothing survived.
func (r Result) RMS(x []float64) float64 {
	s := r.Survivors(x)
	if len(s) == 0 {
		return math.NaN()
	}
	return RMS(s)
}

// RMS returns sqrt(mean(x^2)). Returns 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range x {
		sumSq += v * v
	}
	return math.Sqrt(sumSq / float64(len(x)))
}
