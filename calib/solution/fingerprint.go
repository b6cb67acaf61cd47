package solution

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/zeebo/xxh3"
)

// DefaultAngleTolerance is the largest angle difference, in degrees, that
// still allows reuse.
const DefaultAngleTolerance = 1.0

// Camera kinds.
const (
	KindRed  = "red"
	KindBlue = "blue"
)

// Camera holds the camera-specific keys that must match exactly.
// It is implemented by RedCamera and BlueCamera only.
type Camera interface {
	Kind() string
	exactKeys() [][2]string
}

// RedCamera is the configuration of the red camera.
type RedCamera struct {
	ROI      string
	InstConf string
	WavMode  string
}

// Kind returns "red".
func (RedCamera) Kind() string { return KindRed }

func (c RedCamera) exactKeys() [][2]string {
	return [][2]string{{"ROI", c.ROI}, {"INSTCONF", c.InstConf}, {"WAVMODE", c.WavMode}}
}

// BlueCamera is the configuration of the blue camera.
type BlueCamera struct {
	CCDSum      string
	SerialBin   string
	ParallelBin string
}

// Kind returns "blue".
func (BlueCamera) Kind() string { return KindBlue }

func (c BlueCamera) exactKeys() [][2]string {
	return [][2]string{{"CCDSUM", c.CCDSum}, {"PARAM18", c.SerialBin}, {"PARAM22", c.ParallelBin}}
}

// Fingerprint identifies an instrument configuration.
type Fingerprint struct {
	Grating      string
	CameraAngle  float64
	GratingAngle float64
	Filter       string
	Filter2      string
	Slit         string
	Camera       Camera
}

// FingerprintFromHeader reads a fingerprint from exposure metadata. The
// camera is red when ROI, INSTCONF and WAVMODE are present and blue when
// CCDSUM, PARAM18 and PARAM22 are present.
func FingerprintFromHeader(h calib.Header) (Fingerprint, error) {
	var fp Fingerprint
	var ok bool
	if fp.Grating, ok = h.Lookup("GRATING"); !ok {
		return Fingerprint{}, &calib.ConfigurationError{Key: "GRATING"}
	}
	var err error
	if fp.CameraAngle, err = h.Float("CAM_ANG"); err != nil {
		return Fingerprint{}, err
	}
	if fp.GratingAngle, err = h.Float("GRT_ANG"); err != nil {
		return Fingerprint{}, err
	}
	fp.Filter, _ = h.Lookup("FILTER")
	fp.Filter2, _ = h.Lookup("FILTER2")
	fp.Slit, _ = h.Lookup("SLIT")

	get := func(k string) string {
		v, _ := h.Lookup(k)
		return v
	}
	switch {
	case h.Has("ROI", "INSTCONF", "WAVMODE"):
		fp.Camera = RedCamera{ROI: get("ROI"), InstConf: get("INSTCONF"), WavMode: get("WAVMODE")}
	case h.Has("CCDSUM", "PARAM18", "PARAM22"):
		fp.Camera = BlueCamera{CCDSum: get("CCDSUM"), SerialBin: get("PARAM18"), ParallelBin: get("PARAM22")}
	default:
		return Fingerprint{}, &calib.ConfigurationError{Key: "camera keys (ROI/INSTCONF/WAVMODE or CCDSUM/PARAM18/PARAM22)"}
	}
	return fp, nil
}

// Kind returns the camera kind, or "" when unset.
func (f Fingerprint) Kind() string {
	if f.Camera == nil {
		return ""
	}
	return f.Camera.Kind()
}

// Key hashes the keys that must match exactly. Compatible fingerprints
// share a key, so it can index stored solutions.
func (f Fingerprint) Key() string {
	var b strings.Builder
	b.WriteString(f.Kind())
	b.WriteByte(0)
	b.WriteString(f.Grating)
	if f.Camera != nil {
		for _, kv := range f.Camera.exactKeys() {
			b.WriteByte(0)
			b.WriteString(kv[1])
		}
	}
	return strconv.FormatUint(xxh3.HashString(b.String()), 16)
}

// Compatibility is the outcome of a fingerprint comparison. When OK is
// false, Key names the first mismatching keyword.
type Compatibility struct {
	OK        bool
	Key       string
	Solution  string
	Candidate string
}

// Err returns nil when compatible and an error wrapping
// calib.ErrIncompatibleSolution otherwise.
func (c Compatibility) Err() error {
	if c.OK {
		return nil
	}
	return fmt.Errorf("%w: %s differs (solution %s, data %s)", calib.ErrIncompatibleSolution, c.Key, c.Solution, c.Candidate)
}

// Check compares candidate against f using DefaultAngleTolerance.
func (f Fingerprint) Check(candidate Fingerprint) Compatibility {
	return f.CheckTolerance(candidate, DefaultAngleTolerance)
}

// CheckTolerance compares candidate against f. It never fails; the result
// names the first offending key.
func (f Fingerprint) CheckTolerance(candidate Fingerprint, tolerance float64) Compatibility {
	mismatch := func(key, a, b string) Compatibility {
		return Compatibility{Key: key, Solution: a, Candidate: b}
	}
	if f.Kind() != candidate.Kind() {
		return mismatch("camera", f.Kind(), candidate.Kind())
	}
	if f.Grating != candidate.Grating {
		return mismatch("GRATING", f.Grating, candidate.Grating)
	}
	if f.Camera != nil {
		mine, theirs := f.Camera.exactKeys(), candidate.Camera.exactKeys()
		for i := range mine {
			if mine[i][1] != theirs[i][1] {
				return mismatch(mine[i][0], mine[i][1], theirs[i][1])
			}
		}
	}
	if math.Abs(f.CameraAngle-candidate.CameraAngle) > tolerance {
		return mismatch("CAM_ANG", formatAngle(f.CameraAngle), formatAngle(candidate.CameraAngle))
	}
	if math.Abs(f.GratingAngle-candidate.GratingAngle) > tolerance {
		return mismatch("GRT_ANG", formatAngle(f.GratingAngle), formatAngle(candidate.GratingAngle))
	}
	return Compatibility{OK: true}
}

func formatAngle(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type fingerprintJSON struct {
	Camera       string  `json:"camera"`
	Grating      string  `json:"grating"`
	CameraAngle  float64 `json:"cam_ang"`
	GratingAngle float64 `json:"grt_ang"`
	Filter       string  `json:"filter,omitempty"`
	Filter2      string  `json:"filter2,omitempty"`
	Slit         string  `json:"slit,omitempty"`
	ROI          string  `json:"roi,omitempty"`
	InstConf     string  `json:"instconf,omitempty"`
	WavMode      string  `json:"wavmode,omitempty"`
	CCDSum       string  `json:"ccdsum,omitempty"`
	SerialBin    string  `json:"serial_bin,omitempty"`
	ParallelBin  string  `json:"parallel_bin,omitempty"`
}

// MarshalJSON encodes the camera variant with a "camera" discriminator.
func (f Fingerprint) MarshalJSON() ([]byte, error) {
	out := fingerprintJSON{
		Camera:       f.Kind(),
		Grating:      f.Grating,
		CameraAngle:  f.CameraAngle,
		GratingAngle: f.GratingAngle,
		Filter:       f.Filter,
		Filter2:      f.Filter2,
		Slit:         f.Slit,
	}
	switch c := f.Camera.(type) {
	case RedCamera:
		out.ROI, out.InstConf, out.WavMode = c.ROI, c.InstConf, c.WavMode
	case BlueCamera:
		out.CCDSum, out.SerialBin, out.ParallelBin = c.CCDSum, c.SerialBin, c.ParallelBin
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (f *Fingerprint) UnmarshalJSON(data []byte) error {
	var in fingerprintJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*f = Fingerprint{
		Grating:      in.Grating,
		CameraAngle:  in.CameraAngle,
		GratingAngle: in.GratingAngle,
		Filter:       in.Filter,
		Filter2:      in.Filter2,
		Slit:         in.Slit,
	}
	switch in.Camera {
	case KindRed:
		f.Camera = RedCamera{ROI: in.ROI, InstConf: in.InstConf, WavMode: in.WavMode}
	case KindBlue:
		f.Camera = BlueCamera{CCDSum: in.CCDSum, SerialBin: in.SerialBin, ParallelBin: in.ParallelBin}
	case "":
	default:
		return fmt.Errorf("solution: unknown camera kind %q", in.Camera)
	}
	return nil
}
