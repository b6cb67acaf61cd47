package conv

import "errors"

// ErrEmptyInput is returned when either correlation input is empty.
var ErrEmptyInput = errors.New("conv: empty input")

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
