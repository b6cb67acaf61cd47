package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-wavecal/calib/geometry"
	"github.com/cwbudde/algo-wavecal/internal/fitsfile"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <lamp.fits>",
		Short: "List the emission lines detected in a lamp spectrum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			lamp, err := fitsfile.Read(args[0])
			if err != nil {
				return err
			}
			seq, err := cfg.Detector().Detect(lamp)
			if err != nil {
				return err
			}

			var rows [][]string
			for c := range seq {
				note := ""
				if c.Blended {
					note = "blended"
				}
				rows = append(rows, []string{
					strconv.Itoa(len(rows) + 1),
					strconv.FormatFloat(c.Pixel, 'f', 3, 64),
					strconv.FormatFloat(lamp.At(c.Peak), 'g', 6, 64),
					fmt.Sprintf("%d-%d", c.Left, c.Right),
					note,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Pixel", "Peak", "Window", "Note"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft},
			))

			if lamp.Header().Has(geometry.KeyGrating) {
				geom, err := geometry.FromHeader(lamp.Header(), cfg.GeometryOptions()...)
				if err != nil {
					return err
				}
				ch := geom.Characteristics()
				fmt.Fprintf(out, "Grating %s: blue %.1f A, center %.1f A, red %.1f A\n",
					geom.Parameters().Grating, ch.Blue, ch.Center, ch.Red)
			}
			return nil
		},
	}
}
