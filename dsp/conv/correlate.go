package conv

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// directThreshold is the shorter-input length at or below which Correlate
// uses the direct method.
const directThreshold = 64

// Correlate computes the full cross-correlation of a and b with automatic
// algorithm selection.
func Correlate(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}
	if min(len(a), len(b)) <= directThreshold {
		return CorrelateDirect(a, b)
	}
	return CorrelateFFT(a, b)
}

// CorrelateDirect computes cross-correlation lag by lag.
func CorrelateDirect(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	n, m := len(a), len(b)
	out := make([]float64, n+m-1)
	scratch := make([]float64, min(n, m))

	for k := range out {
		lag := k - (m - 1)
		j0 := max(0, -lag)
		j1 := min(m, n-lag)
		if j1 <= j0 {
			continue
		}
		prod := scratch[:j1-j0]
		vecmath.MulBlock(prod, a[j0+lag:j1+lag], b[j0:j1])
		var sum float64
		for _, v := range prod {
			sum += v
		}
		out[k] = sum
	}
	return out, nil
}

// CorrelateFFT computes cross-correlation as IFFT(FFT(a) * conj(FFT(b))).
func CorrelateFFT(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	n, m := len(a), len(b)
	fftSize := nextPowerOf2(n + m - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	aPadded := make([]complex128, fftSize)
	bPadded := make([]complex128, fftSize)
	for i, v := range a {
		aPadded[i] = complex(v, 0)
	}
	for i, v := range b {
		bPadded[i] = complex(v, 0)
	}

	aFreq := make([]complex128, fftSize)
	bFreq := make([]complex128, fftSize)
	if err := plan.Forward(aFreq, aPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	if err := plan.Forward(bFreq, bPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	for i := range aFreq {
		bf := bFreq[i]
		aFreq[i] *= complex(real(bf), -imag(bf))
	}

	circ := make([]complex128, fftSize)
	if err := plan.Inverse(circ, aFreq); err != nil {
		return nil, fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	// Non-negative lags sit at the start of the circular result,
	// negative lags wrap around to its end.
	out := make([]float64, n+m-1)
	for i := 0; i < n; i++ {
		out[m-1+i] = real(circ[i])
	}
	for i := 0; i < m-1; i++ {
		out[i] = real(circ[fftSize-m+1+i])
	}
	return out, nil
}

// CorrelateNormalized computes cross-correlation divided by the product of
// the L2 norms of a and b, producing values in [-1, 1].
func CorrelateNormalized(a, b []float64) ([]float64, error) {
	out, err := Correlate(a, b)
	if err != nil {
		return nil, err
	}

	norm := l2Norm(a) * l2Norm(b)
	if norm == 0 {
		return out, nil
	}
	for i := range out {
		out[i] /= norm
	}
	return out, nil
}

func l2Norm(x []float64) float64 {
	sq := make([]float64, len(x))
	vecmath.MulBlock(sq, x, x)
	var sum float64
	for _, v := range sq {
		sum += v
	}
	return math.Sqrt(sum)
}

// FindPeak returns the index and value of the maximum of corr.
// Returns -1 for an empty slice.
func FindPeak(corr []float64) (index int, value float64) {
	if len(corr) == 0 {
		return -1, 0
	}
	index, value = 0, corr[0]
	for i, v := range corr {
		if v > value {
			index, value = i, v
		}
	}
	return index, value
}

// LagFromIndex converts a full-layout correlation index to a lag.
func LagFromIndex(index, lenB int) int {
	return index - (lenB - 1)
}
