package evaluate

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-wavecal/dsp/core"
	"github.com/cwbudde/algo-wavecal/internal/testutil"
)

func lampAt(wave []float64, shift float64) []float64 {
	centers := []float64{4310, 4480, 4725, 5020, 5390, 5610}
	out := make([]float64, len(wave))
	for i, w := range wave {
		for _, c := range centers {
			d := (w - shift - c) / 3
			out[i] += 800 * math.Exp(-0.5*d*d)
		}
	}
	return out
}

func TestReferenceOffsetRecoversShift(t *testing.T) {
	wave := core.Linspace(4200, 5711, 1512)
	refWave := core.Linspace(4100, 5900, 3601)

	for _, shift := range []float64{-4.6, 0, 3.4} {
		got, err := ReferenceOffset(wave, lampAt(wave, shift), refWave, lampAt(refWave, 0))
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireNear(t, "offset", got.Angstrom, shift, 0.25)
		if got.Peak < 0.5 {
			t.Fatalf("weak correlation peak %v", got.Peak)
		}
	}
}

func TestReferenceOffsetDescendingReference(t *testing.T) {
	wave := core.Linspace(4200, 5711, 1512)
	refWave := core.Reversed(core.Linspace(4100, 5900, 3601))
	got, err := ReferenceOffset(wave, lampAt(wave, 2), refWave, lampAt(refWave, 0))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireNear(t, "offset", got.Angstrom, 2, 0.25)
}

func TestReferenceOffsetRejectsShortInput(t *testing.T) {
	if _, err := ReferenceOffset([]float64{1, 2}, []float64{1, 2}, []float64{1, 2}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for short spectrum")
	}
}
