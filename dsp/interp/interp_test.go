package interp

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-wavecal/internal/testutil"
)

func TestResampleReproducesCubic(t *testing.T) {
	f := func(x float64) float64 { return 2 + 0.5*x - 0.1*x*x + 0.01*x*x*x }
	xs := make([]float64, 20)
	ys := make([]float64, 20)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = f(xs[i])
	}
	xq := []float64{0.5, 3.25, 10.7, 18.9}
	want := make([]float64, len(xq))
	for i, x := range xq {
		want[i] = f(x)
	}
	got, err := Resample(xs, ys, xq, ModeCubic)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
}

func TestResampleLinear(t *testing.T) {
	got, err := Resample([]float64{0, 1, 2}, []float64{0, 10, 20}, []float64{0.5, 1.5}, ModeLinear)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{5, 15}, 1e-12)
}

func TestFitRejectsNonIncreasing(t *testing.T) {
	if _, err := Fit([]float64{0, 2, 1, 3}, []float64{0, 0, 0, 0}, ModeCubic); err == nil {
		t.Fatal("expected error for non-increasing abscissae")
	}
}

func TestFitTooFewPoints(t *testing.T) {
	_, err := Fit([]float64{0, 1}, []float64{0, 1}, ModeCubic)
	if !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("expected ErrTooFewPoints, got %v", err)
	}
}

func TestSplineClampsOutOfRange(t *testing.T) {
	s, err := Fit([]float64{0, 1, 2}, []float64{1, 2, 3}, ModeLinear)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.At(-5); got != 1 {
		t.Fatalf("At(-5) = %v, want 1", got)
	}
	if got := s.At(9); got != 3 {
		t.Fatalf("At(9) = %v, want 3", got)
	}
}

func TestParabolicVertex(t *testing.T) {
	// y = -(x-0.3)^2 sampled at -1, 0, 1.
	f := func(x float64) float64 { return -(x - 0.3) * (x - 0.3) }
	got := ParabolicVertex(f(-1), f(0), f(1))
	if math.Abs(got-0.3) > 1e-12 {
		t.Fatalf("vertex = %v, want 0.3", got)
	}
	if ParabolicVertex(1, 2, 3) != 0 {
		t.Fatal("collinear samples should yield 0")
	}
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]Mode{"": ModeCubic, "Akima": ModeAkima, "linear": ModeLinear} {
		got, err := ParseMode(name)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseMode("sinc"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
