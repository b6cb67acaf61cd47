package diagplot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/calib/dispersion"
	"github.com/cwbudde/algo-wavecal/calib/evaluate"
	"github.com/cwbudde/algo-wavecal/calib/linearize"
	"github.com/cwbudde/algo-wavecal/internal/testutil"
)

func requirePNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Fatalf("%s is not a PNG", path)
	}
}

func TestPlots(t *testing.T) {
	dir := t.TempDir()
	lamp := calib.NewSpectrum("arc", testutil.ScenarioLamp(), nil)
	catalog := testutil.ScenarioWavelengths()

	linesPath := filepath.Join(dir, "lines.png")
	if err := Lines(linesPath, lamp, testutil.ScenarioPixels); err != nil {
		t.Fatal(err)
	}
	requirePNG(t, linesPath)

	model, err := dispersion.Fit(testutil.ScenarioPixels, catalog, dispersion.WithDomain(1, 2048))
	if err != nil {
		t.Fatal(err)
	}
	ev, err := evaluate.New().Evaluate(model, testutil.ScenarioPixels, catalog)
	if err != nil {
		t.Fatal(err)
	}
	resPath := filepath.Join(dir, "residuals.png")
	if err := Residuals(resPath, ev); err != nil {
		t.Fatal(err)
	}
	requirePNG(t, resPath)

	lin, err := linearize.New().Apply(model, lamp)
	if err != nil {
		t.Fatal(err)
	}
	linPath := filepath.Join(dir, "linear.png")
	if err := Linearized(linPath, lin, catalog); err != nil {
		t.Fatal(err)
	}
	requirePNG(t, linPath)
}

func TestNothingToPlot(t *testing.T) {
	dir := t.TempDir()
	if err := Residuals(filepath.Join(dir, "r.png"), evaluate.Evaluation{}); !errors.Is(err, ErrNothingToPlot) {
		t.Fatalf("err = %v, want ErrNothingToPlot", err)
	}
	if err := Linearized(filepath.Join(dir, "l.png"), nil, nil); !errors.Is(err, ErrNothingToPlot) {
		t.Fatalf("err = %v, want ErrNothingToPlot", err)
	}
}
