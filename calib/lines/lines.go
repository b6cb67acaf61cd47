package lines

import (
	"errors"
	"iter"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/dsp/core"
	"github.com/cwbudde/algo-wavecal/dsp/peak"
)

var errFlat = errors.New("flat spectrum")

// Candidate is one detected line. Positions are 1-based pixels.
type Candidate struct {
	// Pixel is the refined line centre.
	Pixel float64
	// Peak is the raw local maximum.
	Peak int
	// Left and Right are the flank limits found by the scan.
	Left  int
	Right int
	// Blended reports that the asymmetry guard rejected the centroid.
	Blended bool
}

// Detector finds line candidates. The zero value is not usable; use New.
type Detector struct {
	threshold float64
	order     int
	asymmetry float64
}

// Option configures a Detector.
type Option func(*Detector)

// WithThreshold sets the masking level as a fraction of the intensity range.
func WithThreshold(frac float64) Option {
	return func(d *Detector) {
		if frac >= 0 && frac < 1 {
			d.threshold = frac
		}
	}
}

// WithOrder sets how many samples on each side a maximum must exceed.
func WithOrder(order int) Option {
	return func(d *Detector) {
		if order >= 1 {
			d.order = order
		}
	}
}

// WithAsymmetryRatio sets the flank drop-off ratio at or above which a line
// is reported at its raw peak.
func WithAsymmetryRatio(r float64) Option {
	return func(d *Detector) {
		if r > 1 {
			d.asymmetry = r
		}
	}
}

// New returns a Detector with threshold 0.05, order 6 and asymmetry ratio 2.
func New(opts ...Option) *Detector {
	d := &Detector{threshold: 0.05, order: 6, asymmetry: 2}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Detect validates s and returns its line candidates in ascending pixel
// order. Recentring happens lazily while the sequence is consumed; the
// sequence may be iterated more than once and never modifies s.
func (d *Detector) Detect(s *calib.Spectrum) (iter.Seq[Candidate], error) {
	if err := s.Validate("detect"); err != nil {
		return nil, err
	}
	data := s.View()
	lo, hi := core.MinMax(data)
	if !(hi > lo) {
		return nil, &calib.ComputationError{SpectrumID: s.ID(), Op: "detect", Err: errFlat}
	}

	valid := peak.Threshold(data, lo+d.threshold*(hi-lo))
	peaks, err := peak.RelMax(data, valid, d.order)
	if err != nil {
		return nil, &calib.ComputationError{SpectrumID: s.ID(), Op: "detect", Err: err}
	}
	median := core.Median(data)

	return func(yield func(Candidate) bool) {
		for _, p := range peaks {
			if !yield(d.recenter(data, p, median)) {
				return
			}
		}
	}, nil
}

// Pixels runs Detect and collects the refined centres.
func (d *Detector) Pixels(s *calib.Spectrum) ([]float64, error) {
	seq, err := d.Detect(s)
	if err != nil {
		return nil, err
	}
	var out []float64
	for c := range seq {
		out = append(out, c.Pixel)
	}
	return out, nil
}

// recenter refines the 0-based peak index p.
func (d *Detector) recenter(data []float64, p int, median float64) Candidate {
	n := len(data)

	// Walk outwards until the flank rises for two consecutive samples or
	// falls below the median.
	left := p
	for i := p; i-2 > 0; i-- {
		left = i
		if data[i-1] > data[i] && data[i-2] > data[i-1] {
			break
		}
		if data[i] < median {
			break
		}
	}
	right := p
	for i := p; i+2 < n-1; i++ {
		right = i
		if data[i+1] > data[i] && data[i+2] > data[i+1] {
			break
		}
		if data[i] < median {
			break
		}
	}

	c := Candidate{Peak: p + 1, Left: left + 1, Right: right + 1}

	dropLeft := math.Abs(data[p] - data[left])
	dropRight := math.Abs(data[p] - data[right])
	lo, hi := min(dropLeft, dropRight), max(dropLeft, dropRight)
	if (lo == 0 && hi > 0) || (lo > 0 && hi/lo >= d.asymmetry) {
		c.Pixel = float64(p + 1)
		c.Blended = true
		return c
	}

	half := min(p-left, right-p)
	centroid, ok := weightedCentroid(data[p-half:p+half+1], p-half)
	if !ok {
		c.Pixel = float64(p + 1)
		return c
	}
	c.Pixel = centroid + 1
	return c
}

// weightedCentroid returns sum(i*w[i])/sum(w[i]) with i starting at offset.
func weightedCentroid(w []float64, offset int) (float64, bool) {
	pos := core.Linspace(float64(offset), float64(offset+len(w)-1), len(w))
	prod := make([]float64, len(w))
	vecmath.MulBlock(prod, pos, w)

	var num, den float64
	for i := range w {
		num += prod[i]
		den += w[i]
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}
