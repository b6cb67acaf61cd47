package config

import (
	"maps"

	"github.com/cwbudde/algo-wavecal/calib/geometry"
	"github.com/cwbudde/algo-wavecal/calib/solution"
)

const (
	defaultThreshold          = 0.05
	defaultOrder              = 6
	defaultAsymmetryRatio     = 2
	defaultDegree             = 3
	defaultMinPoints          = 4
	defaultSigma              = 2
	defaultIterations         = 5
	defaultFindMoreSigma      = 2
	defaultFindMoreIterations = 3
	defaultFloorPixels        = 0.05
	defaultTaper              = "tukey"
	defaultTaperAlpha         = 0.1
	defaultMethod             = "cubic"
	defaultMedianKernel       = 3
	defaultCatalog            = "~/.config/wavecal/linelists.yaml"
	defaultStore              = "~/.local/share/wavecal/solutions.db"
	defaultOutputDir          = "."
	defaultOutputPrefix       = "w"
	defaultLogLevel           = "info"
	defaultLogFormat          = "auto"
)

// Default returns a Config populated with the Goodman defaults.
func Default() Config {
	inst := geometry.DefaultInstrument()
	return Config{
		Instrument: Instrument{
			Gratings:       maps.Clone(inst.Gratings),
			HalfField:      inst.HalfField,
			BlueCorrection: inst.BlueCorrection,
			RedCorrection:  inst.RedCorrection,
			ReferencePixel: inst.ReferencePixel,
			PixelPitch:     inst.PixelPitch,
			FocalLength:    inst.FocalLength,
			AngleTolerance: solution.DefaultAngleTolerance,
		},
		Detection: Detection{
			Threshold:      defaultThreshold,
			Order:          defaultOrder,
			AsymmetryRatio: defaultAsymmetryRatio,
		},
		Fit: Fit{
			Degree:    defaultDegree,
			MinPoints: defaultMinPoints,
		},
		Evaluation: Evaluation{
			Sigma:              defaultSigma,
			Iterations:         defaultIterations,
			FindMoreSigma:      defaultFindMoreSigma,
			FindMoreIterations: defaultFindMoreIterations,
			FloorPixels:        defaultFloorPixels,
			Taper:              defaultTaper,
			TaperAlpha:         defaultTaperAlpha,
		},
		Linearize: Linearize{
			Method:       defaultMethod,
			MedianKernel: defaultMedianKernel,
		},
		Paths: Paths{
			Catalog:      defaultCatalog,
			Store:        defaultStore,
			OutputDir:    defaultOutputDir,
			OutputPrefix: defaultOutputPrefix,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
