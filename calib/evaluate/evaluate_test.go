package evaluate

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/calib/dispersion"
	"github.com/cwbudde/algo-wavecal/internal/testutil"
	"github.com/cwbudde/algo-wavecal/stats/clip"
)

func knownModel(t *testing.T) *dispersion.Model {
	t.Helper()
	m, err := dispersion.Fit(testutil.ScenarioPixels, testutil.ScenarioWavelengths(), dispersion.WithDomain(1, 2048))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestEvaluateWithoutModel(t *testing.T) {
	_, err := New().Evaluate(nil, []float64{1}, []float64{4000})
	if !errors.Is(err, calib.ErrNoSolution) {
		t.Fatalf("err = %v, want ErrNoSolution", err)
	}
	if _, err := New().FindMoreLines(nil, []float64{1}, []float64{4000}, nil); !errors.Is(err, calib.ErrNoSolution) {
		t.Fatalf("FindMoreLines err = %v, want ErrNoSolution", err)
	}
}

func TestEvaluateRoundTripHasZeroRMS(t *testing.T) {
	ev, err := New().Evaluate(knownModel(t), testutil.ScenarioPixels, testutil.ScenarioWavelengths())
	if err != nil {
		t.Fatal(err)
	}
	if ev.RMS > 1e-6 {
		t.Fatalf("rms = %v, want ~0", ev.RMS)
	}
	if ev.Points != 5 || ev.Rejected != 0 {
		t.Fatalf("points=%d rejected=%d, want 5 and 0", ev.Points, ev.Rejected)
	}
	if !strings.HasPrefix(ev.Comment(), "Lamp Solution RMSE = ") || !strings.HasSuffix(ev.Comment(), "Npoints = 5, NRej = 0") {
		t.Fatalf("unexpected comment %q", ev.Comment())
	}
}

func TestEvaluateRejectsMismatchedLine(t *testing.T) {
	pixels := []float64{150, 300, 450, 600, 750, 900, 1050, 1200, 1350, 1500, 1650, 1800}
	catalog := make([]float64, len(pixels))
	for i, p := range pixels {
		catalog[i] = testutil.KnownCubic(p) + 0.05*math.Sin(1.3*float64(i))
	}
	const bad = 7
	catalog[bad] = testutil.KnownCubic(pixels[bad]) + 15

	ev, err := New().Evaluate(knownModel(t), pixels, catalog)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Rejected < 1 || !ev.RejectedMask[bad] {
		t.Fatalf("mismatched line not rejected: rejected=%d mask=%v", ev.Rejected, ev.RejectedMask)
	}
	if full := clip.RMS(ev.Residuals); !(ev.RMS < full) {
		t.Fatalf("clipped rms %v not below full rms %v", ev.RMS, full)
	}
	if ev.DisplayMin < -1 || ev.DisplayMax > 1 {
		t.Fatalf("display range [%v, %v] includes the outlier", ev.DisplayMin, ev.DisplayMax)
	}
	testutil.RequireNear(t, "residual", ev.Residuals[bad], -15, 1e-6)
}

func TestFindMoreLines(t *testing.T) {
	pixels := []float64{150, 400, 650, 900, 1150, 1400, 1650, 1900}
	catalog := make([]float64, len(pixels))
	for i, p := range pixels {
		catalog[i] = testutil.KnownCubic(p)
	}
	catalog[3] += 20
	existing := []float64{catalog[0], catalog[1]}

	got, err := New().FindMoreLines(knownModel(t), pixels, catalog, existing)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d proposals, want 5: %+v", len(got), got)
	}
	for _, p := range got {
		if p.Pixel == pixels[3] || p.Wavelength == catalog[0] || p.Wavelength == catalog[1] {
			t.Fatalf("unexpected proposal %+v", p)
		}
		testutil.RequireNear(t, "proposal", p.Wavelength, testutil.KnownCubic(p.Pixel), 1e-6)
	}
}

func TestSubsetFitKeepsExtrapolatedLine(t *testing.T) {
	pixels := testutil.ScenarioPixels
	catalog := testutil.ScenarioWavelengths()
	m, err := dispersion.Fit(pixels[:4], catalog[:4], dispersion.WithDomain(1, 2048))
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		name  string
		shift float64
		kept  bool
	}{
		{name: "centroid jitter", shift: 0.01, kept: true},
		{name: "one pixel off", shift: 1, kept: false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			lines := slices.Clone(pixels)
			lines[4] += tc.shift

			ev, err := New().Evaluate(m, lines, catalog)
			if err != nil {
				t.Fatal(err)
			}
			if ev.Points != 5 || ev.RejectedMask[4] == tc.kept {
				t.Fatalf("points=%d rejected=%v residual=%v", ev.Points, ev.RejectedMask, ev.Residuals[4])
			}

			got, err := New().FindMoreLines(m, lines, catalog, catalog[:4])
			if err != nil {
				t.Fatal(err)
			}
			want := 0
			if tc.kept {
				want = 1
			}
			if len(got) != want {
				t.Fatalf("got %d proposals, want %d: %+v", len(got), want, got)
			}
		})
	}
}

func TestCompareRMS(t *testing.T) {
	cases := []struct {
		prev, cur float64
		want      Trend
	}{
		{0.5, 0.3, TrendImproved},
		{0.3, 0.5, TrendWorse},
		{0.3, 0.3005, TrendSame},
		{math.NaN(), 0.3, TrendNone},
	}
	for _, tc := range cases {
		if got, _ := CompareRMS(tc.prev, tc.cur); got != tc.want {
			t.Errorf("CompareRMS(%v, %v) = %v, want %v", tc.prev, tc.cur, got, tc.want)
		}
	}
}
