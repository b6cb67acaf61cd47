package core

import (
	"math"
	"testing"
)

func TestMinMax(t *testing.T) {
	lo, hi := MinMax([]float64{3, -2, 7, 1})
	if lo != -2 || hi != 7 {
		t.Fatalf("MinMax = (%v, %v), want (-2, 7)", lo, hi)
	}
	if lo, hi := MinMax(nil); lo != 0 || hi != 0 {
		t.Fatalf("MinMax(empty) = (%v, %v)", lo, hi)
	}
}

func TestReversed(t *testing.T) {
	x := []float64{1, 2, 3}
	got := Reversed(x)
	if got[0] != 3 || got[1] != 2 || got[2] != 1 {
		t.Fatalf("Reversed = %v", got)
	}
	if x[0] != 1 {
		t.Fatal("input modified")
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{5, 1, 3}); got != 3 {
		t.Fatalf("odd median = %v", got)
	}
	if got := Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Fatalf("even median = %v", got)
	}
	if !math.IsNaN(Median(nil)) {
		t.Fatal("expected NaN for empty input")
	}
}

func TestNearestIndex(t *testing.T) {
	x := []float64{4000, 4500, 5100}
	if got := NearestIndex(x, 4490); got != 1 {
		t.Fatalf("NearestIndex = %d, want 1", got)
	}
	if got := NearestIndex(nil, 1); got != -1 {
		t.Fatalf("NearestIndex(empty) = %d", got)
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(1, 2, 5)
	want := []float64{1, 1.25, 1.5, 1.75, 2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestMonotonic(t *testing.T) {
	for _, tc := range []struct {
		x    []float64
		want int
	}{
		{x: []float64{1, 2, 3}, want: 1},
		{x: []float64{3, 2, 1}, want: -1},
		{x: []float64{1, 1, 2}, want: 0},
		{x: []float64{1}, want: 0},
	} {
		if got := Monotonic(tc.x); got != tc.want {
			t.Fatalf("Monotonic(%v) = %d, want %d", tc.x, got, tc.want)
		}
	}
}
