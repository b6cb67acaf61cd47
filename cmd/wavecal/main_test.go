package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/calib/linearize"
	"github.com/cwbudde/algo-wavecal/internal/fitsfile"
	"github.com/cwbudde/algo-wavecal/internal/store"
	"github.com/cwbudde/algo-wavecal/internal/testutil"
)

type fixture struct {
	dir    string
	config string
	lamp   string
	sci    string
	script string
	store  string
}

func blueHeader(object string) calib.Header {
	return calib.Header{
		"OBJECT": object, "GRATING": "930", "CAM_ANG": "24.0", "GRT_ANG": "12.0",
		"CCDSUM": "1 2", "PARAM18": "1", "PARAM22": "2",
	}
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		config: filepath.Join(dir, "wavecal.toml"),
		lamp:   filepath.Join(dir, "arc_0001.fits"),
		sci:    filepath.Join(dir, "sci_0002.fits"),
		script: filepath.Join(dir, "marks.yaml"),
		store:  filepath.Join(dir, "db", "solutions.db"),
	}

	var lines []string
	for _, w := range testutil.ScenarioWavelengths() {
		lines = append(lines, fmt.Sprintf("%.4f", w))
	}
	catalog := "lamps:\n  - name: HgArNe\n    lines: [" + strings.Join(lines, ", ") + "]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lines.yaml"), []byte(catalog), 0o644))

	cfg := fmt.Sprintf("[paths]\ncatalog = %q\nstore = %q\noutput_dir = %q\noutput_prefix = \"w\"\n[logging]\nformat = \"json\"\nlevel = \"error\"\n",
		filepath.Join(dir, "lines.yaml"), f.store, dir)
	require.NoError(t, os.WriteFile(f.config, []byte(cfg), 0o644))

	spectrum := &linearize.Spectrum{Flux: testutil.ScenarioLamp()}
	require.NoError(t, fitsfile.Write(f.lamp, spectrum, blueHeader("HgArNe"), nil))
	require.NoError(t, fitsfile.Write(f.sci, spectrum, blueHeader("NGC 253"), nil))

	var script strings.Builder
	script.WriteString("accept: true\nsteps:\n")
	for i, p := range testutil.ScenarioPixels {
		fmt.Fprintf(&script, "  - {op: add-mark, side: pixel, value: %g}\n", p+1)
		fmt.Fprintf(&script, "  - {op: add-mark, side: wavelength, value: %g}\n", testutil.ScenarioWavelengths()[i]+0.5)
	}
	script.WriteString("  - {op: fit}\n  - {op: auto}\n")
	require.NoError(t, os.WriteFile(f.script, []byte(script.String()), 0o644))
	return f
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCalibrateThenApply(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, "-c", f.config, "detect", f.lamp)
	require.NoError(t, err)
	assert.Contains(t, out, "Grating 930")
	rows := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "│") {
			rows++
		}
	}
	assert.Equal(t, 6, rows, "header plus five lines:\n%s", out)

	out, err = run(t, "-c", f.config, "calibrate", f.lamp, "--script", f.script, "--science", f.sci)
	require.NoError(t, err)
	assert.Contains(t, out, "Npoints = 5, NRej = 0")
	assert.FileExists(t, filepath.Join(f.dir, "warc_0001.fits"))
	assert.FileExists(t, filepath.Join(f.dir, "wsci_0002.fits"))

	st, err := store.Open(f.store)
	require.NoError(t, err)
	sols, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sols, 1)
	assert.InDelta(t, 4000, sols[0].Model().At(200), 0.5)
	require.NoError(t, st.Close())

	lin, err := fitsfile.Read(filepath.Join(f.dir, "wsci_0002.fits"))
	require.NoError(t, err)
	h := lin.Header()
	crval, err := h.Float("CRVAL1")
	require.NoError(t, err)
	assert.InDelta(t, sols[0].Model().At(1), crval, 1e-6)
	object, _ := h.Lookup("OBJECT")
	assert.Equal(t, "NGC 253", object)

	require.NoError(t, os.Remove(filepath.Join(f.dir, "wsci_0002.fits")))
	out, err = run(t, "-c", f.config, "apply", f.sci)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 linearized spectra")
	assert.FileExists(t, filepath.Join(f.dir, "wsci_0002.fits"))

	out, err = run(t, "-c", f.config, "solutions")
	require.NoError(t, err)
	assert.Contains(t, out, "arc_0001")
	assert.Contains(t, out, "1 solutions")
}

func TestApplyWithoutCompatibleSolution(t *testing.T) {
	f := newFixture(t)
	_, err := run(t, "-c", f.config, "apply", f.sci)
	assert.ErrorIs(t, err, calib.ErrIncompatibleSolution)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "wavecal.toml")
	out, err := run(t, "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = run(t, "config", "init", "--path", path)
	assert.ErrorContains(t, err, "already exists")

	out, err = run(t, "config", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}
