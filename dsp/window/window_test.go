package window

import (
	"math"
	"testing"
)

func TestTukeyLimits(t *testing.T) {
	const n = 33
	rect := Generate(TypeTukey, n, WithAlpha(0))
	hann := Generate(TypeHann, n)
	full := Generate(TypeTukey, n, WithAlpha(1))

	for i := range rect {
		if rect[i] != 1 {
			t.Fatalf("alpha=0 index %d: got %v, want 1", i, rect[i])
		}
		if math.Abs(full[i]-hann[i]) > 1e-12 {
			t.Fatalf("alpha=1 index %d: got %v, want Hann %v", i, full[i], hann[i])
		}
	}
}

func TestWindowsSymmetric(t *testing.T) {
	for _, typ := range []Type{TypeHann, TypeTukey, TypeWelch} {
		w := Generate(typ, 64, WithAlpha(0.3))
		for i := range w {
			if d := math.Abs(w[i] - w[len(w)-1-i]); d > 1e-12 {
				t.Fatalf("%v: asymmetric at %d (diff %v)", typ, i, d)
			}
			if w[i] < -1e-12 || w[i] > 1+1e-12 {
				t.Fatalf("%v: coefficient %v out of [0,1]", typ, w[i])
			}
		}
	}
}

func TestApplyRectangularIsIdentity(t *testing.T) {
	buf := []float64{3, -1, 2}
	Apply(TypeRectangular, buf)
	if buf[0] != 3 || buf[1] != -1 || buf[2] != 2 {
		t.Fatalf("rectangular window changed data: %v", buf)
	}
}

func TestParseType(t *testing.T) {
	for name, want := range map[string]Type{"Hann": TypeHann, " tukey ": TypeTukey, "none": TypeRectangular} {
		got, err := ParseType(name)
		if err != nil || got != want {
			t.Fatalf("ParseType(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseType("kaiser"); err == nil {
		t.Fatal("expected error for unsupported window")
	}
}
