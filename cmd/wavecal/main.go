// Command wavecal derives and applies wavelength solutions for long-slit
// spectra.
//
// Usage:
//
//	wavecal detect lamp.fits
//	wavecal calibrate lamp.fits --script marks.yaml --science target.fits
//	wavecal apply target.fits ...
//	wavecal solutions
//	wavecal config init
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
