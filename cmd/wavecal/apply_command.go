package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-wavecal/calib/solution"
	"github.com/cwbudde/algo-wavecal/internal/fitsfile"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <science.fits>...",
		Short: "Linearize science spectra with a stored compatible solution",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.logger
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			var failed []error
			written := 0
			for _, path := range args {
				targets, err := fitsfile.ReadTargets(path)
				if err != nil {
					failed = append(failed, err)
					continue
				}
				fp, err := solution.FingerprintFromHeader(targets[0].Header())
				if err != nil {
					failed = append(failed, fmt.Errorf("%s: %w", path, err))
					continue
				}
				sol, compat, err := st.FindCompatible(cmd.Context(), fp)
				if err != nil {
					logger.Info("no compatible solution",
						"path", path,
						"key", compat.Key,
						"solution_value", compat.Solution,
						"data_value", compat.Candidate,
					)
					failed = append(failed, fmt.Errorf("%s: %w", path, err))
					continue
				}
				logger.Info("reusing solution", "path", path, "solution", sol.ID(), "lamp", sol.Lamp())
				names, err := writeLinearized(logger, cfg, sol, path)
				written += len(names)
				if err != nil {
					failed = append(failed, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d linearized spectra\n", written)
			return errors.Join(failed...)
		},
	}
}
