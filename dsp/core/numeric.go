package core

import (
	"math"
	"sort"
)

// MinMax returns the smallest and largest values of x.
// Returns (0, 0) for an empty slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	lo, hi := x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Median returns the median of x, averaging the two central values for even
// lengths. x is not modified. Returns NaN for an empty slice.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	s := make([]float64, n)
	copy(s, x)
	sort.Float64s(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return 0.5 * (s[n/2-1] + s[n/2])
}

// NearestIndex returns the index of the element of x closest to target.
// Ties resolve to the lowest index. Returns -1 for an empty slice.
func NearestIndex(x []float64, target float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, v := range x {
		if d := math.Abs(v - target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// Monotonic reports whether x is strictly increasing (+1), strictly
// decreasing (-1), or neither (0).
func Monotonic(x []float64) int {
	if len(x) < 2 {
		return 0
	}
	inc, dec := true, true
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			inc = false
		}
		if x[i] >= x[i-1] {
			dec = false
		}
	}
	switch {
	case inc:
		return 1
	case dec:
		return -1
	default:
		return 0
	}
}

// Reversed returns a reversed copy of x.
func Reversed(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[len(x)-1-i] = v
	}
	return out
}
