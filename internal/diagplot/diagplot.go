// Package diagplot renders diagnostic PNG plots of a calibration: the lamp
// with its detected lines, the fit residuals, and the linearized lamp.
package diagplot

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/calib/evaluate"
	"github.com/cwbudde/algo-wavecal/calib/linearize"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNothingToPlot is returned for empty inputs.
var ErrNothingToPlot = errors.New("diagplot: nothing to plot")

var (
	width  = 10 * vg.Inch
	height = 5 * vg.Inch

	spectrumColor = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	keptColor     = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	rejectedColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	markerColor   = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// Lines plots the raw lamp against pixel and marks each detected line.
func Lines(path string, lamp *calib.Spectrum, lines []float64) error {
	if lamp.Len() == 0 {
		return ErrNothingToPlot
	}
	p := plot.New()
	p.Title.Text = "Lines detected in lamp " + lamp.ID()
	p.X.Label.Text = "Pixel"
	p.Y.Label.Text = "Intensity"

	curve := make(plotter.XYs, lamp.Len())
	for i, v := range lamp.View() {
		curve[i] = plotter.XY{X: float64(i + 1), Y: v}
	}
	l, err := plotter.NewLine(curve)
	if err != nil {
		return fmt.Errorf("diagplot: lamp curve: %w", err)
	}
	l.LineStyle.Color = spectrumColor
	l.LineStyle.Width = vg.Points(1)
	p.Add(l)

	if len(lines) > 0 {
		pts := make(plotter.XYs, len(lines))
		for i, x := range lines {
			idx := min(max(int(x+0.5), 1), lamp.Len())
			pts[i] = plotter.XY{X: x, Y: lamp.At(idx)}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("diagplot: line markers: %w", err)
		}
		s.GlyphStyle.Color = markerColor
		s.GlyphStyle.Radius = vg.Points(4)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("%d lines", len(lines)), s)
	}
	return save(p, path)
}

// Residuals plots predicted minus catalog wavelength per detected line,
// separating clipped points, with the single-round clip bounds as guides.
func Residuals(path string, ev evaluate.Evaluation) error {
	if len(ev.Residuals) == 0 {
		return ErrNothingToPlot
	}
	p := plot.New()
	p.Title.Text = ev.Comment()
	p.X.Label.Text = "Pixel"
	p.Y.Label.Text = "Residual (Angstrom)"

	var kept, rejected plotter.XYs
	for i, r := range ev.Residuals {
		pt := plotter.XY{X: ev.Pixels[i], Y: r}
		if i < len(ev.RejectedMask) && ev.RejectedMask[i] {
			rejected = append(rejected, pt)
		} else {
			kept = append(kept, pt)
		}
	}
	for _, set := range []struct {
		pts   plotter.XYs
		col   color.Color
		label string
	}{
		{kept, keptColor, "kept"},
		{rejected, rejectedColor, "rejected"},
	} {
		if len(set.pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(set.pts)
		if err != nil {
			return fmt.Errorf("diagplot: %s residuals: %w", set.label, err)
		}
		s.GlyphStyle.Color = set.col
		s.GlyphStyle.Radius = vg.Points(4)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(set.label, s)
	}

	lo, hi := ev.Pixels[0], ev.Pixels[0]
	for _, x := range ev.Pixels {
		lo, hi = min(lo, x), max(hi, x)
	}
	for _, y := range []float64{ev.DisplayMin, ev.DisplayMax} {
		g, err := plotter.NewLine(plotter.XYs{{X: lo, Y: y}, {X: hi, Y: y}})
		if err != nil {
			return fmt.Errorf("diagplot: clip bound: %w", err)
		}
		g.LineStyle.Color = rejectedColor
		g.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(g)
	}
	p.Add(plotter.NewGrid())
	return save(p, path)
}

// Linearized plots the resampled lamp against wavelength and marks the
// catalog wavelengths inside its range.
func Linearized(path string, lin *linearize.Spectrum, catalog []float64) error {
	if lin == nil || len(lin.Flux) == 0 {
		return ErrNothingToPlot
	}
	p := plot.New()
	p.Title.Text = "Linearized lamp"
	p.X.Label.Text = "Wavelength (Angstrom)"
	p.Y.Label.Text = "Intensity"

	curve := make(plotter.XYs, len(lin.Flux))
	peak := lin.Flux[0]
	for i, v := range lin.Flux {
		curve[i] = plotter.XY{X: lin.Wavelength[i], Y: v}
		peak = max(peak, v)
	}
	l, err := plotter.NewLine(curve)
	if err != nil {
		return fmt.Errorf("diagplot: linearized curve: %w", err)
	}
	l.LineStyle.Color = spectrumColor
	p.Add(l)

	first, last := lin.Wavelength[0], lin.Wavelength[len(lin.Wavelength)-1]
	for _, w := range catalog {
		if w < first || w > last {
			continue
		}
		m, err := plotter.NewLine(plotter.XYs{{X: w, Y: 0}, {X: w, Y: peak}})
		if err != nil {
			return fmt.Errorf("diagplot: catalog marker: %w", err)
		}
		m.LineStyle.Color = markerColor
		m.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(3)}
		p.Add(m)
	}
	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("diagplot: save %s: %w", path, err)
	}
	return nil
}
