package fitsfile

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"
	"github.com/cwbudde/algo-wavecal/calib"
)

var (
	// ErrNotImage is returned when the primary HDU holds no image.
	ErrNotImage = errors.New("fitsfile: primary HDU is not an image")
	// ErrNotSpectrum is returned for images with more than one row.
	ErrNotSpectrum = errors.New("fitsfile: image is not a 1-D spectrum")
	// ErrNoWCS is returned when no linear wavelength axis is described.
	ErrNoWCS = errors.New("fitsfile: no linear wavelength axis")
)

// Read loads the primary HDU of path as a single spectrum. The spectrum id
// is the file base name without extension.
func Read(path string) (*calib.Spectrum, error) {
	specs, err := ReadTargets(path)
	if err != nil {
		return nil, err
	}
	if len(specs) != 1 {
		return nil, fmt.Errorf("%w: %s holds %d rows", ErrNotSpectrum, path, len(specs))
	}
	return specs[0], nil
}

// ReadTargets loads every row of a 2-D primary image as one extracted
// target spectrum. Row i of a multi-row image gets the id <base>_<i+1>; a
// single row keeps the base name. All rows share the file metadata.
func ReadTargets(path string) ([]*calib.Spectrum, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fitsfile: open %s: %w", path, err)
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("fitsfile: decode %s: %w", path, err)
	}
	defer f.Close()

	img, ok := f.HDU(0).(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, path)
	}
	hdr := img.Header()

	n, rows, err := imageShape(hdr.Axes())
	if err != nil {
		return nil, fmt.Errorf("%w: %s axes %v", err, path, hdr.Axes())
	}
	samples, err := readSamples(img, hdr.Bitpix(), n*rows)
	if err != nil {
		return nil, fmt.Errorf("fitsfile: read %s: %w", path, err)
	}

	meta := headerValues(hdr)
	scale, zero := 1.0, 0.0
	if v, err := meta.Float("BSCALE"); err == nil {
		scale = v
	}
	if v, err := meta.Float("BZERO"); err == nil {
		zero = v
	}
	if scale != 1 || zero != 0 {
		for i := range samples {
			samples[i] = zero + scale*samples[i]
		}
	}

	base := BaseName(path)
	out := make([]*calib.Spectrum, rows)
	for i := range out {
		id := base
		if rows > 1 {
			id = base + "_" + strconv.Itoa(i+1)
		}
		out[i] = calib.NewSpectrum(id, samples[i*n:(i+1)*n], meta)
	}
	return out, nil
}

// imageShape returns the row length and row count. Axes beyond the second
// must be degenerate.
func imageShape(axes []int) (n, rows int, err error) {
	if len(axes) == 0 || axes[0] < 1 {
		return 0, 0, ErrNotSpectrum
	}
	rows = 1
	if len(axes) > 1 {
		rows = axes[1]
		for _, a := range axes[2:] {
			if a != 1 {
				return 0, 0, ErrNotSpectrum
			}
		}
	}
	if rows < 1 {
		return 0, 0, ErrNotSpectrum
	}
	return axes[0], rows, nil
}

func readSamples(img fitsio.Image, bitpix, n int) ([]float64, error) {
	out := make([]float64, n)
	switch bitpix {
	case 8:
		buf := make([]byte, n)
		if err := img.Read(&buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			out[i] = float64(v)
		}
	case 16:
		buf := make([]int16, n)
		if err := img.Read(&buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			out[i] = float64(v)
		}
	case 32:
		buf := make([]int32, n)
		if err := img.Read(&buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			out[i] = float64(v)
		}
	case 64:
		buf := make([]int64, n)
		if err := img.Read(&buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			out[i] = float64(v)
		}
	case -32:
		buf := make([]float32, n)
		if err := img.Read(&buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			out[i] = float64(v)
		}
	case -64:
		if err := img.Read(&out); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
	return out, nil
}

// headerValues flattens the header into string values. Commentary cards
// are dropped.
func headerValues(hdr *fitsio.Header) calib.Header {
	h := make(calib.Header, len(hdr.Keys()))
	for _, k := range hdr.Keys() {
		switch k {
		case "", "COMMENT", "HISTORY", "END":
			continue
		}
		c := hdr.Get(k)
		if c == nil || c.Value == nil {
			continue
		}
		h[k] = formatValue(c.Value)
	}
	return h
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case bool:
		if x {
			return "T"
		}
		return "F"
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// WavelengthAxis evaluates the linear axis described by CRVAL1, CDELT1 (or
// CD1_1) and CRPIX1 for n pixels.
func WavelengthAxis(h calib.Header, n int) ([]float64, error) {
	crval, err := h.Float("CRVAL1")
	if err != nil {
		return nil, ErrNoWCS
	}
	cdelt, err := h.Float("CDELT1")
	if err != nil {
		if cdelt, err = h.Float("CD1_1"); err != nil {
			return nil, ErrNoWCS
		}
	}
	crpix, err := h.Float("CRPIX1")
	if err != nil {
		crpix = 1
	}
	if cdelt == 0 || math.IsNaN(cdelt) {
		return nil, ErrNoWCS
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = crval + (float64(i+1)-crpix)*cdelt
	}
	return out, nil
}

// BaseName strips the directory and a .fits or .fit extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".fits", ".fit", ".fts"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}
