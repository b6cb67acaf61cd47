package testutil

import "math"

// Line describes one synthetic Gaussian emission line. Center is a 1-based
// pixel coordinate.
type Line struct {
	Center    float64
	Amplitude float64
	Sigma     float64
}

// GaussianLamp renders lines over a constant background into n samples.
// Sample i holds the intensity at 1-based pixel i+1.
func GaussianLamp(n int, background float64, lines ...Line) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = background
	}
	for _, l := range lines {
		for i := range out {
			d := float64(i+1) - l.Center
			out[i] += l.Amplitude * math.Exp(-0.5*d*d/(l.Sigma*l.Sigma))
		}
	}
	return out
}

// Ripple adds a deterministic high-frequency ripple of the given amplitude
// to x in place, standing in for detector noise.
func Ripple(x []float64, amp float64) []float64 {
	for i := range x {
		x[i] += amp * math.Sin(2.7*float64(i))
	}
	return x
}

// ScenarioPixels are the line positions of the five-line reference lamp.
var ScenarioPixels = []float64{200, 500, 900, 1400, 1800}

// KnownCubic is the fixed dispersion relation used by the five-line
// scenario: 4000 Å at pixel 200 with mild curvature.
func KnownCubic(p float64) float64 {
	u := p - 200
	return 4000 + 1.7*u - 1.0e-4*u*u + 2.0e-8*u*u*u
}

// ScenarioWavelengths returns KnownCubic evaluated at ScenarioPixels.
//
// The round values 4000, 4500, 5100, 5800 and 6400 Å are not on any cubic:
// a degree-3 fit through them leaves an rms of about 1.5 Å, so a sub-0.5 Å
// fit of this lamp is only reachable with wavelengths taken from KnownCubic.
// Do not replace these with the round values.
func ScenarioWavelengths() []float64 {
	out := make([]float64, len(ScenarioPixels))
	for i, p := range ScenarioPixels {
		out[i] = KnownCubic(p)
	}
	return out
}

// ScenarioLamp renders the 2048-sample five-line lamp on a zero background
// with a unit ripple.
func ScenarioLamp() []float64 {
	lines := make([]Line, len(ScenarioPixels))
	for i, p := range ScenarioPixels {
		lines[i] = Line{Center: p, Amplitude: 1000, Sigma: 3}
	}
	return Ripple(GaussianLamp(2048, 0, lines...), 1)
}
