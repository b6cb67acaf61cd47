package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-wavecal/calib/session"
	"github.com/cwbudde/algo-wavecal/calib/solution"
	"github.com/cwbudde/algo-wavecal/internal/fitsfile"
)

func newCalibrateCommand(ctx *commandContext) *cobra.Command {
	var scriptPath string
	var lampName string
	var accept bool
	var science []string

	cmd := &cobra.Command{
		Use:   "calibrate <lamp.fits>",
		Short: "Fit a wavelength solution from scripted marks",
		Long: "Detects the lines of a lamp, replays a YAML command script against a " +
			"calibration session and, when the script accepts the result, stores the " +
			"solution and writes linearized copies of the lamp and science spectra.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.logger

			lamp, err := fitsfile.Read(args[0])
			if err != nil {
				return err
			}
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			entry, err := cat.ForHeader(lamp.Header())
			if strings.TrimSpace(lampName) != "" {
				entry, err = cat.Lookup(lampName)
			}
			if err != nil {
				return err
			}
			logger.Info("processing comparison lamp", "lamp", lamp.ID(), "name", entry.Name, "catalog_lines", len(entry.Lines))

			sess, err := session.New(lamp, entry.Lines,
				session.WithLogger(logger),
				session.WithDetector(cfg.Detector()),
				session.WithFitOptions(cfg.FitOptions()...),
				session.WithEvaluator(cfg.Evaluator()),
				session.WithLinearizer(cfg.Linearizer()),
				session.WithGeometryOptions(cfg.GeometryOptions()...),
			)
			if err != nil {
				return err
			}

			f, err := os.Open(scriptPath)
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			script, err := session.LoadScript(f)
			f.Close()
			if err != nil {
				return err
			}
			cmds, err := script.Commands()
			if err != nil {
				return err
			}

			snap, err := runScript(logger, sess, cmds)
			if err != nil {
				return err
			}
			if snap.Closed {
				logger.Info("session abandoned; nothing written", "lamp", lamp.ID())
				return nil
			}
			if snap.Model != nil && snap.Linear == nil {
				if snap, err = sess.Handle(session.Linearize{}); err != nil {
					return err
				}
			}
			reportOffset(logger, cfg, cat, entry, snap.Linear)
			writePlots(logger, cfg.Paths.PlotsDir, lamp, snap, entry.Lines)

			if !accept && !script.Accept {
				fmt.Fprintln(cmd.OutOrStdout(), "Solution not accepted; rerun with --accept to store it")
				return nil
			}
			sol, err := sess.Accept()
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Save(cmd.Context(), sol); err != nil {
				return err
			}
			logger.Info("stored solution", "solution", sol.ID(), "store", st.Path())

			var failed []error
			for _, input := range append([]string{args[0]}, science...) {
				if input != args[0] {
					if err := checkTarget(sol, input); err != nil {
						logger.Info("science target needs its own solution", "path", input, "error", err)
						failed = append(failed, err)
						continue
					}
				}
				if _, err := writeLinearized(logger, cfg, sol, input); err != nil {
					failed = append(failed, err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), sol.Summary().Comment)
			return errors.Join(failed...)
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "YAML command script")
	cmd.Flags().StringVar(&lampName, "lamp", "", "Catalog lamp name (default: OBJECT keyword)")
	cmd.Flags().BoolVar(&accept, "accept", false, "Accept the solution even if the script does not")
	cmd.Flags().StringSliceVar(&science, "science", nil, "Science spectra to linearize with the accepted solution")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

// checkTarget verifies that a science exposure shares the lamp
// configuration.
func checkTarget(sol *solution.Solution, path string) error {
	targets, err := fitsfile.ReadTargets(path)
	if err != nil {
		return err
	}
	return sol.CompatibleHeader(targets[0].Header()).Err()
}
