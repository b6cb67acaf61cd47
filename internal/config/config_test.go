package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/calib/geometry"
	"github.com/cwbudde/algo-wavecal/dsp/interp"
	"github.com/cwbudde/algo-wavecal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.toml")
	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, path, resolved)
	assert.Equal(t, 3, cfg.Fit.Degree)
	assert.Equal(t, 0.05, cfg.Detection.Threshold)
	assert.Equal(t, 400.0, cfg.Instrument.Gratings["SYZY_400"])
	assert.True(t, filepath.IsAbs(cfg.Paths.Store))
}

func TestSampleConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "wavecal.toml")
	require.NoError(t, config.CreateSample(path))

	cfg, _, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)

	def := config.Default()
	assert.Equal(t, def.Instrument.Gratings, cfg.Instrument.Gratings)
	assert.Equal(t, def.Evaluation, cfg.Evaluation)
	assert.Equal(t, def.Detection, cfg.Detection)
	assert.Empty(t, cfg.Paths.PlotsDir)
}

func TestLoadOverridesAndValidates(t *testing.T) {
	dir := t.TempDir()
	write := func(body string) string {
		p := filepath.Join(dir, "c.toml")
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	cfg, _, _, err := config.Load(write("[fit]\ndegree = 2\nmin_points = 3\n[linearize]\nmethod = \" Akima \"\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Fit.Degree)
	assert.Equal(t, "akima", cfg.Linearize.Method)

	cfg, _, _, err = config.Load(write("[evaluation]\ntaper = \" Hann \"\n"))
	require.NoError(t, err)
	assert.Equal(t, "hann", cfg.Evaluation.Taper)
	assert.Len(t, cfg.OffsetOptions(), 1)

	cases := map[string]string{
		"min points below degree": "[fit]\ndegree = 3\nmin_points = 2\n",
		"even median kernel":      "[linearize]\nmedian_kernel = 4\n",
		"bad method":              "[linearize]\nmethod = \"sinc\"\n",
		"negative grating":        "[instrument.gratings]\nBAD = -1.0\n",
		"unknown key":             "[fit]\nspline = true\n",
		"bad log format":          "[logging]\nformat = \"xml\"\n",
		"bad taper":               "[evaluation]\ntaper = \"kaiser\"\n",
		"taper alpha above one":   "[evaluation]\ntaper_alpha = 1.5\n",
		"negative floor":          "[evaluation]\nfloor_pixels = -0.1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := config.Load(write(body))
			assert.Error(t, err)
		})
	}
}

func TestOptionsReachPackages(t *testing.T) {
	cfg := config.Default()
	cfg.Instrument.Gratings = map[string]float64{"TEST_300": 300}

	_, err := geometry.New(geometry.Parameters{Grating: "TEST_300", GratingAngle: 10, CameraAngle: 20, Binning: 1}, cfg.GeometryOptions()...)
	require.NoError(t, err)
	_, err = geometry.New(geometry.Parameters{Grating: "SYZY_400", GratingAngle: 10, CameraAngle: 20, Binning: 1}, cfg.GeometryOptions()...)
	assert.ErrorIs(t, err, calib.ErrConfiguration)

	assert.NotNil(t, cfg.Detector())
	assert.NotNil(t, cfg.Evaluator())
	assert.Len(t, cfg.FitOptions(), 2)

	cfg.Linearize.Method = "linear"
	assert.NotNil(t, cfg.Linearizer())
	_, err = interp.ParseMode(cfg.Linearize.Method)
	assert.NoError(t, err)
}
