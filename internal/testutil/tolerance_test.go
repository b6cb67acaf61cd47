package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{4000.0, 4500.0, 5100.0}
	b := []float64{4000.0, 4500.25, 5100.0}

	d, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}
	if math.Abs(d-0.25) > 1e-12 {
		t.Fatalf("MaxAbsDiff = %v, want 0.25", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestRequireUniformAcceptsLinspace(t *testing.T) {
	axis := make([]float64, 50)
	for i := range axis {
		axis[i] = 3500 + float64(i)*0.65
	}
	RequireUniform(t, axis, 1e-9)
}

func TestRequireNearAcceptsWithinTolerance(t *testing.T) {
	RequireNear(t, "wavelength", 4000.2, 4000, 0.5)
}
