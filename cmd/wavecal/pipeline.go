package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/calib/evaluate"
	"github.com/cwbudde/algo-wavecal/calib/linearize"
	"github.com/cwbudde/algo-wavecal/calib/session"
	"github.com/cwbudde/algo-wavecal/calib/solution"
	"github.com/cwbudde/algo-wavecal/internal/config"
	"github.com/cwbudde/algo-wavecal/internal/diagplot"
	"github.com/cwbudde/algo-wavecal/internal/fitsfile"
	"github.com/cwbudde/algo-wavecal/internal/linelist"
)

// recoverable reports errors that leave a session usable.
func recoverable(err error) bool {
	return errors.Is(err, calib.ErrInsufficientData) ||
		errors.Is(err, calib.ErrNoSolution) ||
		errors.Is(err, calib.ErrAutomaticUnsupported) ||
		errors.Is(err, session.ErrConfirmationRequired)
}

// runScript replays commands against s. Recoverable failures are logged and
// skipped.
func runScript(logger *slog.Logger, s *session.Session, cmds []session.Command) (session.Snapshot, error) {
	var snap session.Snapshot
	for _, cmd := range cmds {
		next, err := s.Handle(cmd)
		snap = next
		if err == nil {
			continue
		}
		if !recoverable(err) {
			return snap, fmt.Errorf("%s: %w", cmd, err)
		}
		logger.Warn("command failed", "command", cmd.String(), "error", err)
	}
	return snap, nil
}

// reportOffset compares a linearized lamp with the catalog reference
// spectrum, if the lamp has one.
func reportOffset(logger *slog.Logger, cfg *config.Config, cat *linelist.Catalog, entry linelist.Lamp, lin *linearize.Spectrum) {
	path := cat.ReferencePath(entry)
	if path == "" || lin == nil {
		return
	}
	ref, err := fitsfile.Read(path)
	if err != nil {
		logger.Warn("reference lamp unavailable", "path", path, "error", err)
		return
	}
	refWave, err := fitsfile.WavelengthAxis(ref.Header(), ref.Len())
	if err != nil {
		logger.Warn("reference lamp has no wavelength axis", "path", path, "error", err)
		return
	}
	off, err := evaluate.ReferenceOffset(lin.Wavelength, lin.Flux, refWave, ref.Samples(), cfg.OffsetOptions()...)
	if err != nil {
		logger.Warn("reference offset failed", "path", path, "error", err)
		return
	}
	logger.Info("offset from reference lamp",
		"reference", ref.ID(),
		"angstrom", off.Angstrom,
		"pixels", off.Lag,
		"correlation", off.Peak,
	)
}

// writeLinearized linearizes every target with sol and writes one file per
// target. The index suffix is used only when an input holds several targets.
func writeLinearized(logger *slog.Logger, cfg *config.Config, sol *solution.Solution, input string) ([]string, error) {
	targets, err := fitsfile.ReadTargets(input)
	if err != nil {
		return nil, err
	}
	lin := cfg.Linearizer()
	var written []string
	for i, t := range targets {
		out, err := lin.Apply(sol.Model(), t)
		if err != nil {
			return written, err
		}
		index := 0
		if len(targets) > 1 {
			index = i + 1
		}
		name := fitsfile.OutputName(cfg.Paths.OutputDir, cfg.Paths.OutputPrefix, input, index)
		cards := solution.HeaderCards(out, sol.Lamp(), sol.Summary().Comment)
		if err := fitsfile.Write(name, out, t.Header(), cards); err != nil {
			return written, err
		}
		logger.Info("created new file", "path", name, "target", t.ID())
		written = append(written, name)
	}
	return written, nil
}

// writePlots renders the diagnostic plots of a finished session.
func writePlots(logger *slog.Logger, dir string, lamp *calib.Spectrum, snap session.Snapshot, catalog []float64) {
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("cannot create plots directory", "dir", dir, "error", err)
		return
	}
	plots := []struct {
		name string
		draw func(string) error
	}{
		{"lines", func(p string) error { return diagplot.Lines(p, lamp, snap.Lines) }},
		{"residuals", func(p string) error {
			if snap.Evaluation == nil {
				return diagplot.ErrNothingToPlot
			}
			return diagplot.Residuals(p, *snap.Evaluation)
		}},
		{"linear", func(p string) error { return diagplot.Linearized(p, snap.Linear, catalog) }},
	}
	for _, pl := range plots {
		path := filepath.Join(dir, lamp.ID()+"_"+pl.name+".png")
		if err := pl.draw(path); err != nil {
			if !errors.Is(err, diagplot.ErrNothingToPlot) {
				logger.Warn("plot failed", "plot", pl.name, "error", err)
			}
			continue
		}
		logger.Debug("wrote plot", "path", path)
	}
}
