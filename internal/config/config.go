package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Instrument holds the spectrograph constants.
type Instrument struct {
	Gratings       map[string]float64 `toml:"gratings"`
	HalfField      float64            `toml:"half_field"`
	BlueCorrection float64            `toml:"blue_correction"`
	RedCorrection  float64            `toml:"red_correction"`
	ReferencePixel float64            `toml:"reference_pixel"`
	PixelPitch     float64            `toml:"pixel_pitch"`
	FocalLength    float64            `toml:"focal_length"`
	AngleTolerance float64            `toml:"angle_tolerance"`
}

// Detection configures the line detector.
type Detection struct {
	Threshold      float64 `toml:"threshold"`
	Order          int     `toml:"order"`
	AsymmetryRatio float64 `toml:"asymmetry_ratio"`
}

// Fit configures the dispersion fitter.
type Fit struct {
	Degree    int `toml:"degree"`
	MinPoints int `toml:"min_points"`
}

// Evaluation configures residual clipping.
type Evaluation struct {
	Sigma              float64 `toml:"sigma"`
	Iterations         int     `toml:"iterations"`
	FindMoreSigma      float64 `toml:"find_more_sigma"`
	FindMoreIterations int     `toml:"find_more_iterations"`
	FloorPixels        float64 `toml:"floor_pixels"`
	Taper              string  `toml:"taper"`
	TaperAlpha         float64 `toml:"taper_alpha"`
}

// Linearize configures resampling.
type Linearize struct {
	Method       string `toml:"method"`
	MedianKernel int    `toml:"median_kernel"`
}

// Paths contains file locations.
type Paths struct {
	Catalog      string `toml:"catalog"`
	Store        string `toml:"store"`
	OutputDir    string `toml:"output_dir"`
	OutputPrefix string `toml:"output_prefix"`
	PlotsDir     string `toml:"plots_dir"`
}

// Logging configures the logger.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration.
type Config struct {
	Instrument Instrument `toml:"instrument"`
	Detection  Detection  `toml:"detection"`
	Fit        Fit        `toml:"fit"`
	Evaluation Evaluation `toml:"evaluation"`
	Linearize  Linearize  `toml:"linearize"`
	Paths      Paths      `toml:"paths"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the per-user configuration path.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/wavecal/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file
// yields the defaults. The returned config has all paths expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		if projectPath, err := filepath.Abs("wavecal.toml"); err == nil {
			if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
				return projectPath, true, nil
			}
		}
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return "", false, err
		}
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return expanded, true, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath applies the configuration path rules: a leading ~ is the home
// directory and the result is absolute.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
