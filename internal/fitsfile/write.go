package fitsfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/astrogo/fitsio"
	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/calib/linearize"
	"github.com/cwbudde/algo-wavecal/calib/solution"
)

// structural keys are generated by the encoder.
var structural = map[string]bool{
	"SIMPLE": true, "BITPIX": true, "NAXIS": true, "NAXIS1": true, "NAXIS2": true,
	"NAXIS3": true, "EXTEND": true, "BSCALE": true, "BZERO": true, "END": true,
}

// OutputName returns dir/<prefix><base>.fits, or <prefix><base>_<index>.fits
// when index is positive. Callers pass a positive index only when one input
// yields more than one target.
func OutputName(dir, prefix, input string, index int) string {
	name := prefix + BaseName(input)
	if index > 0 {
		name += "_" + strconv.Itoa(index)
	}
	return filepath.Join(dir, name+".fits")
}

// Write stores lin as a 64-bit float image. The original metadata is
// carried over, with the solution cards taking precedence.
func Write(path string, lin *linearize.Spectrum, original calib.Header, cards []solution.Card) error {
	img := fitsio.NewImage(-64, []int{len(lin.Flux)})
	defer img.Close()

	if err := img.Header().Append(mergeCards(original, cards)...); err != nil {
		return fmt.Errorf("fitsfile: header for %s: %w", path, err)
	}
	if err := img.Write(lin.Flux); err != nil {
		return fmt.Errorf("fitsfile: data for %s: %w", path, err)
	}

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("fitsfile: create %s: %w", path, err)
	}
	f, err := fitsio.Create(w)
	if err != nil {
		w.Close()
		return fmt.Errorf("fitsfile: encode %s: %w", path, err)
	}
	if err := f.Write(img); err != nil {
		f.Close()
		w.Close()
		return fmt.Errorf("fitsfile: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		w.Close()
		return fmt.Errorf("fitsfile: close %s: %w", path, err)
	}
	return w.Close()
}

func mergeCards(original calib.Header, cards []solution.Card) []fitsio.Card {
	replaced := make(map[string]bool, len(cards))
	for _, c := range cards {
		replaced[c.Key] = true
	}

	keys := original.Keys()
	out := make([]fitsio.Card, 0, len(keys)+len(cards))
	for _, k := range keys {
		if structural[k] || replaced[k] {
			continue
		}
		out = append(out, fitsio.Card{Name: k, Value: cardValue(original[k])})
	}
	for _, c := range cards {
		if c.Key == "HISTORY" || c.Key == "COMMENT" {
			out = append(out, fitsio.Card{Name: c.Key, Comment: fmt.Sprint(c.Value)})
			continue
		}
		out = append(out, fitsio.Card{Name: c.Key, Value: c.Value, Comment: c.Comment})
	}
	return out
}

// cardValue restores numeric types for values read back as strings.
func cardValue(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "T":
		return true
	case "F":
		return false
	}
	return s
}
