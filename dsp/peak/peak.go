package peak

import (
	"errors"
	"fmt"
)

// ErrMaskLength indicates a validity mask that does not match the signal.
var ErrMaskLength = errors.New("peak: mask length does not match signal length")

// Threshold returns a validity mask marking samples at or above level.
func Threshold(x []float64, level float64) []bool {
	valid := make([]bool, len(x))
	for i, v := range x {
		valid[i] = v >= level
	}
	return valid
}

// RelMax returns the indices of relative maxima of x in ascending order.
//
// A valid sample i is a maximum when x[i] > x[j] for every j in
// [i-order, i+order], j != i. Neighbour indices outside the signal are
// clipped to the nearest edge, so the first and last samples are never
// maxima. Invalid neighbours never disqualify a candidate. valid may be nil
// to treat every sample as valid.
func RelMax(x []float64, valid []bool, order int) ([]int, error) {
	if order < 1 {
		return nil, fmt.Errorf("peak: order must be >= 1: %d", order)
	}
	if valid != nil && len(valid) != len(x) {
		return nil, ErrMaskLength
	}
	n := len(x)
	isValid := func(i int) bool { return valid == nil || valid[i] }

	var out []int
	for i := 0; i < n; i++ {
		if !isValid(i) {
			continue
		}
		peak := true
		for k := 1; k <= order && peak; k++ {
			for _, j := range [2]int{i - k, i + k} {
				if j < 0 {
					j = 0
				}
				if j > n-1 {
					j = n - 1
				}
				if !isValid(j) {
					continue
				}
				if !(x[i] > x[j]) {
					peak = false
					break
				}
			}
		}
		if peak {
			out = append(out, i)
		}
	}
	return out, nil
}
