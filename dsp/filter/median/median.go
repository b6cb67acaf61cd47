// Package median implements a running median filter.
package median

import (
	"fmt"
	"sort"
)

// Filter applies a median filter of odd length kernel to x and returns a new
// slice of the same length. Samples beyond either edge are treated as zero,
// matching the conventional zero-padded median filter.
func Filter(x []float64, kernel int) ([]float64, error) {
	if kernel < 1 || kernel%2 == 0 {
		return nil, fmt.Errorf("median: kernel must be a positive odd number: %d", kernel)
	}
	out := make([]float64, len(x))
	half := kernel / 2
	window := make([]float64, kernel)
	for i := range x {
		for k := -half; k <= half; k++ {
			j := i + k
			if j < 0 || j >= len(x) {
				window[k+half] = 0
				continue
			}
			window[k+half] = x[j]
		}
		sort.Float64s(window)
		out[i] = window[half]
	}
	return out, nil
}
