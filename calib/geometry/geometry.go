package geometry

import (
	"maps"
	"math"
	"strconv"

	"github.com/cwbudde/algo-wavecal/calib"
)

// Header keywords read by FromHeader.
const (
	KeyGrating      = "GRATING"
	KeyGratingAngle = "GRT_ANG"
	KeyCameraAngle  = "CAM_ANG"
	KeyBinning      = "PG5_4"
	KeyBinningAlt   = "PARAM22"
)

// Instrument holds the constants of the spectrograph.
type Instrument struct {
	// Gratings maps grating identifiers to line frequencies in lines/mm.
	Gratings map[string]float64
	// HalfField is the camera half field angle in degrees.
	HalfField float64
	// BlueCorrection and RedCorrection are added to the limits, in Angstrom.
	BlueCorrection float64
	RedCorrection  float64
	// ReferencePixel is the unbinned detector pixel on the optical axis.
	ReferencePixel float64
	// PixelPitch is the physical pixel size in mm.
	PixelPitch float64
	// FocalLength is the camera focal length in mm.
	FocalLength float64
}

// DefaultInstrument returns the Goodman spectrograph constants.
func DefaultInstrument() Instrument {
	return Instrument{
		Gratings: map[string]float64{
			"SYZY_400":       400,
			"KOSI_600":       600,
			"930":            930,
			"RALC_1200-BLUE": 1200,
			"RALC_1200-RED":  1200,
		},
		HalfField:      4.656,
		BlueCorrection: -90,
		RedCorrection:  -60,
		ReferencePixel: 2048,
		PixelPitch:     0.015,
		FocalLength:    377.2,
	}
}

// Option overrides an instrument constant.
type Option func(*Instrument)

// WithInstrument replaces all constants.
func WithInstrument(inst Instrument) Option {
	return func(i *Instrument) {
		*i = inst
		i.Gratings = maps.Clone(inst.Gratings)
	}
}

// WithGrating registers or overrides a grating frequency.
func WithGrating(name string, frequency float64) Option {
	return func(i *Instrument) {
		if i.Gratings == nil {
			i.Gratings = map[string]float64{}
		}
		i.Gratings[name] = frequency
	}
}

// WithCorrections sets the blue and red limit corrections in Angstrom.
func WithCorrections(blue, red float64) Option {
	return func(i *Instrument) {
		i.BlueCorrection, i.RedCorrection = blue, red
	}
}

// WithHalfField sets the camera half field angle in degrees.
func WithHalfField(deg float64) Option {
	return func(i *Instrument) {
		i.HalfField = deg
	}
}

// WithCamera sets the reference pixel, pixel pitch and focal length.
func WithCamera(referencePixel, pixelPitch, focalLength float64) Option {
	return func(i *Instrument) {
		i.ReferencePixel = referencePixel
		i.PixelPitch = pixelPitch
		i.FocalLength = focalLength
	}
}

// Parameters describe one exposure's configuration.
type Parameters struct {
	Grating      string
	GratingAngle float64 // degrees
	CameraAngle  float64 // degrees
	Binning      float64
}

// Characteristics summarise the expected dispersion of an exposure.
type Characteristics struct {
	Center float64
	Blue   float64
	Red    float64
	Alpha  float64 // degrees
	Beta   float64 // degrees
	Pix1   float64 // predicted wavelength of pixel 1
	Pix2   float64 // predicted wavelength of pixel 2
}

// Model predicts wavelengths for one exposure. It is read-only.
type Model struct {
	params    Parameters
	inst      Instrument
	frequency float64
}

// New resolves the grating frequency and returns a Model. An unknown grating
// is a configuration error.
func New(p Parameters, opts ...Option) (*Model, error) {
	inst := DefaultInstrument()
	for _, opt := range opts {
		if opt != nil {
			opt(&inst)
		}
	}

	freq, ok := inst.Gratings[p.Grating]
	if !ok || freq <= 0 {
		return nil, &calib.ConfigurationError{Key: KeyGrating, Value: p.Grating}
	}
	if p.Binning <= 0 {
		p.Binning = 1
	}
	if inst.FocalLength <= 0 {
		return nil, &calib.ConfigurationError{Key: "focal_length", Value: strconv.FormatFloat(inst.FocalLength, 'g', -1, 64)}
	}
	return &Model{params: p, inst: inst, frequency: freq}, nil
}

// FromHeader reads the grating, angles and binning from exposure metadata.
// Binning is taken from PG5_4 and falls back to PARAM22.
func FromHeader(h calib.Header, opts ...Option) (*Model, error) {
	grating, ok := h.Lookup(KeyGrating)
	if !ok {
		return nil, &calib.ConfigurationError{Key: KeyGrating}
	}
	grtAng, err := h.Float(KeyGratingAngle)
	if err != nil {
		return nil, err
	}
	camAng, err := h.Float(KeyCameraAngle)
	if err != nil {
		return nil, err
	}
	binKey := KeyBinning
	if !h.Has(binKey) {
		binKey = KeyBinningAlt
	}
	binning, err := h.Float(binKey)
	if err != nil {
		return nil, err
	}
	return New(Parameters{
		Grating:      grating,
		GratingAngle: grtAng,
		CameraAngle:  camAng,
		Binning:      binning,
	}, opts...)
}

// Parameters returns the exposure configuration.
func (m *Model) Parameters() Parameters { return m.params }

// Frequency returns the grating line frequency in lines/mm.
func (m *Model) Frequency() float64 { return m.frequency }

// Alpha returns the incidence angle in degrees.
func (m *Model) Alpha() float64 { return m.params.GratingAngle }

// Beta returns the diffraction angle in degrees.
func (m *Model) Beta() float64 { return m.params.CameraAngle - m.params.GratingAngle }

func (m *Model) grating(beta float64) float64 {
	return 10 * (1e6 / m.frequency) * (math.Sin(rad(m.Alpha())) + math.Sin(beta))
}

// Center returns the central wavelength in Angstrom.
func (m *Model) Center() float64 {
	return m.grating(rad(m.Beta()))
}

// Blue returns the corrected blue wavelength limit in Angstrom.
func (m *Model) Blue() float64 {
	return m.grating(rad(m.Beta()-m.inst.HalfField)) + m.inst.BlueCorrection
}

// Red returns the corrected red wavelength limit in Angstrom.
func (m *Model) Red() float64 {
	return m.grating(rad(m.Beta()+m.inst.HalfField)) + m.inst.RedCorrection
}

// Predicted returns the expected wavelength at a 1-based binned pixel.
func (m *Model) Predicted(pixel float64) float64 {
	offset := (pixel*m.params.Binning - m.inst.ReferencePixel) * m.inst.PixelPitch / m.inst.FocalLength
	return m.grating(rad(m.Beta()) + math.Atan(offset))
}

// Characteristics returns all derived values at once.
func (m *Model) Characteristics() Characteristics {
	return Characteristics{
		Center: m.Center(),
		Blue:   m.Blue(),
		Red:    m.Red(),
		Alpha:  m.Alpha(),
		Beta:   m.Beta(),
		Pix1:   m.Predicted(1),
		Pix2:   m.Predicted(2),
	}
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
