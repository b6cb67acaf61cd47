package dispersion

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/internal/testutil"
)

func TestFitRecoversKnownCubic(t *testing.T) {
	pixels := testutil.ScenarioPixels
	m, err := Fit(pixels, testutil.ScenarioWavelengths(), WithDomain(1, 2048))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []float64{1, 200, 777.5, 1500, 2048} {
		testutil.RequireNear(t, "model", m.At(p), testutil.KnownCubic(p), 1e-6)
	}
	testutil.RequireNear(t, "predicted(200)", m.At(200), 4000, 0.5)
}

func TestRoundScenarioValuesAreNotCubic(t *testing.T) {
	pixels := testutil.ScenarioPixels
	round := []float64{4000, 4500, 5100, 5800, 6400}
	rms := func(waves []float64) float64 {
		m, err := Fit(pixels, waves, WithDomain(1, 2048))
		if err != nil {
			t.Fatal(err)
		}
		var sum float64
		for i, w := range m.Apply(pixels) {
			sum += (w - waves[i]) * (w - waves[i])
		}
		return math.Sqrt(sum / float64(len(waves)))
	}
	testutil.RequireNear(t, "round rms", rms(round), 1.52, 0.01)
	if got := rms(testutil.ScenarioWavelengths()); got > 1e-6 {
		t.Fatalf("scenario rms = %v, want ~0", got)
	}
}

func TestFitRoundTrip(t *testing.T) {
	pixels := []float64{120, 340, 610, 905, 1280, 1650, 1990}
	waves := make([]float64, len(pixels))
	for i, p := range pixels {
		// Small deterministic deviations from a cubic.
		waves[i] = testutil.KnownCubic(p) + 0.05*math.Sin(float64(i))
	}
	m, err := Fit(pixels, waves)
	if err != nil {
		t.Fatal(err)
	}
	got := m.Apply(pixels)
	for i := range got {
		testutil.RequireNear(t, "round trip", got[i], waves[i], 0.1)
	}
}

func TestFitIsDeterministic(t *testing.T) {
	pixels := []float64{100, 400, 800, 1200, 1600, 2000}
	waves := []float64{3900.2, 4410.7, 5070.1, 5713.9, 6342.3, 6955.0}
	a, err := Fit(pixels, waves)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Fit(pixels, waves)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatalf("refit differs:\n%v\n%v", a, b)
	}
}

func TestFitInsufficientData(t *testing.T) {
	cases := []struct {
		name     string
		pix, wav []float64
		side     calib.Side
		missing  int
	}{
		{"three pairs", []float64{1, 2, 3}, []float64{10, 20, 30}, calib.SidePixel, 1},
		{"unbalanced", []float64{1, 2, 3, 4, 5}, []float64{10, 20, 30, 40}, calib.SideWavelength, 1},
		{"empty", nil, nil, calib.SidePixel, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Fit(tc.pix, tc.wav)
			if !errors.Is(err, calib.ErrInsufficientData) {
				t.Fatalf("err = %v, want insufficient data", err)
			}
			var ide *calib.InsufficientDataError
			if !errors.As(err, &ide) {
				t.Fatalf("err is %T", err)
			}
			side, n := ide.Missing()
			if side != tc.side || n != tc.missing {
				t.Fatalf("missing = (%v, %d), want (%v, %d)", side, n, tc.side, tc.missing)
			}
		})
	}
}

func TestFitDegenerate(t *testing.T) {
	_, err := Fit([]float64{5, 5, 5, 5}, []float64{1, 2, 3, 4})
	if !errors.Is(err, calib.ErrComputation) {
		t.Fatalf("err = %v, want computation error", err)
	}
	_, err = Fit([]float64{1, 2, math.NaN(), 4}, []float64{1, 2, 3, 4})
	if !errors.Is(err, calib.ErrComputation) {
		t.Fatalf("err = %v, want computation error", err)
	}
}

func TestDispersionAndClone(t *testing.T) {
	m, err := Fit([]float64{1, 2, 3}, []float64{10, 12, 14}, WithDegree(1), WithMinPoints(2), WithDomain(1, 11))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireNear(t, "dispersion", m.Dispersion(), 2, 1e-9)

	c := m.Clone()
	if !c.Equal(m) {
		t.Fatalf("clone %v differs from %v", c, m)
	}
	c.Coefficients[0] = 0
	if c.Equal(m) {
		t.Fatal("clone shares coefficients with the original")
	}
	if (*Model)(nil).Clone() != nil {
		t.Fatal("nil clone should stay nil")
	}
}

func TestFitLinearDegree(t *testing.T) {
	m, err := Fit([]float64{1, 2}, []float64{10, 12}, WithDegree(1), WithMinPoints(2))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireNear(t, "extrapolated", m.At(3), 14, 1e-9)
}
