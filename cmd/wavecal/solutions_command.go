package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newSolutionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "solutions",
		Short: "List stored wavelength solutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			sols, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(sols))
			for _, s := range sols {
				fp := s.Fingerprint()
				sum := s.Summary()
				rows = append(rows, []string{
					shortID(s.ID()),
					humanize.Time(s.CreatedAt()),
					s.Lamp(),
					fp.Kind(),
					fp.Grating,
					strconv.FormatFloat(fp.GratingAngle, 'f', 2, 64),
					strconv.FormatFloat(sum.RMS, 'g', 4, 64),
					strconv.Itoa(sum.Points),
					strconv.Itoa(sum.Rejected),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Created", "Lamp", "Camera", "Grating", "GRT_ANG", "RMS", "Points", "Rejected"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			fmt.Fprintf(out, "%s solutions in %s\n", humanize.Comma(int64(len(sols))), st.Path())
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
