// Package marks stores correspondences between detected lines (pixel side)
// and catalog wavelengths (wavelength side).
//
// The two sides are kept as index-aligned sequences: entry i on each side
// forms one pair. While a user is halfway through marking a pair one side may
// hold extra trailing entries; those dangling entries are never reported by
// [Store.Pairs].
package marks

import (
	"math"
	"slices"

	"github.com/cwbudde/algo-wavecal/calib"
)

// Origin tells manual marks from automatically suggested ones.
type Origin int

const (
	Manual Origin = iota
	Auto
)

func (o Origin) String() string {
	if o == Auto {
		return "auto"
	}
	return "manual"
}

// Mark is one side of a correspondence.
type Mark struct {
	Value  float64
	Origin Origin
}

// Pair is a completed correspondence.
type Pair struct {
	Pixel      float64
	Wavelength float64
	Origin     Origin
}

// Store holds the marks of one calibration session. It is not safe for
// concurrent use.
type Store struct {
	pixel      []Mark
	wavelength []Mark
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

func (s *Store) side(side calib.Side) *[]Mark {
	if side == calib.SideWavelength {
		return &s.wavelength
	}
	return &s.pixel
}

func (s *Store) other(side calib.Side) *[]Mark {
	if side == calib.SideWavelength {
		return &s.pixel
	}
	return &s.wavelength
}

// boundary is the number of completed pairs.
func (s *Store) boundary() int {
	return min(len(s.pixel), len(s.wavelength))
}

// Add appends a single manual mark to one side. Marking the shorter side
// completes the oldest open pair.
func (s *Store) Add(side calib.Side, value float64) {
	m := s.side(side)
	*m = append(*m, Mark{Value: value, Origin: Manual})
}

// AddManual inserts a complete manual pair.
func (s *Store) AddManual(pixel, wavelength float64) {
	s.insertPair(pixel, wavelength, Manual)
}

// AddAuto inserts a complete pair flagged as suggested, so UndoAuto can
// remove it later.
func (s *Store) AddAuto(pixel, wavelength float64) {
	s.insertPair(pixel, wavelength, Auto)
}

// insertPair places the pair after the completed pairs, ahead of any
// dangling marks.
func (s *Store) insertPair(pixel, wavelength float64, origin Origin) {
	at := s.boundary()
	s.pixel = slices.Insert(s.pixel, at, Mark{Value: pixel, Origin: origin})
	s.wavelength = slices.Insert(s.wavelength, at, Mark{Value: wavelength, Origin: origin})
}

// RemoveNearest removes the mark on side closest to target. When that mark
// is dangling only it is removed, otherwise its whole pair goes. It reports
// whether anything was removed.
func (s *Store) RemoveNearest(side calib.Side, target float64) bool {
	m := s.side(side)
	idx := nearest(*m, target)
	if idx < 0 {
		return false
	}
	o := s.other(side)
	*m = slices.Delete(*m, idx, idx+1)
	if idx < len(*o) {
		*o = slices.Delete(*o, idx, idx+1)
	}
	return true
}

func nearest(marks []Mark, target float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, mk := range marks {
		if d := math.Abs(mk.Value - target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// UndoAuto removes every pair that was added by AddAuto and returns how many
// were removed.
func (s *Store) UndoAuto() int {
	n := s.boundary()
	keepPix := s.pixel[:0:0]
	keepWav := s.wavelength[:0:0]
	removed := 0
	for i := 0; i < n; i++ {
		if s.pixel[i].Origin == Auto || s.wavelength[i].Origin == Auto {
			removed++
			continue
		}
		keepPix = append(keepPix, s.pixel[i])
		keepWav = append(keepWav, s.wavelength[i])
	}
	s.pixel = append(keepPix, s.pixel[n:]...)
	s.wavelength = append(keepWav, s.wavelength[n:]...)
	return removed
}

// Clear empties both sides. Confirmation is the caller's responsibility.
func (s *Store) Clear() {
	s.pixel = nil
	s.wavelength = nil
}

// Counts returns the number of marks on each side.
func (s *Store) Counts() (pixel, wavelength int) {
	return len(s.pixel), len(s.wavelength)
}

// Balanced reports whether no mark is dangling.
func (s *Store) Balanced() bool {
	return len(s.pixel) == len(s.wavelength)
}

// Pairs returns the completed pairs in insertion order.
func (s *Store) Pairs() []Pair {
	n := s.boundary()
	out := make([]Pair, n)
	for i := range n {
		origin := s.pixel[i].Origin
		if s.wavelength[i].Origin == Auto {
			origin = Auto
		}
		out[i] = Pair{Pixel: s.pixel[i].Value, Wavelength: s.wavelength[i].Value, Origin: origin}
	}
	return out
}

// Marks returns a copy of one side, dangling entries included.
func (s *Store) Marks(side calib.Side) []Mark {
	return slices.Clone(*s.side(side))
}

// Values returns the values of one side, dangling entries included.
func (s *Store) Values(side calib.Side) []float64 {
	m := *s.side(side)
	out := make([]float64, len(m))
	for i, mk := range m {
		out[i] = mk.Value
	}
	return out
}

// Contains reports whether side holds value exactly.
func (s *Store) Contains(side calib.Side, value float64) bool {
	return slices.ContainsFunc(*s.side(side), func(m Mark) bool { return m.Value == value })
}
