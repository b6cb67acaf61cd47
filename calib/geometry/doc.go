// Package geometry predicts the dispersion of a grating spectrograph from
// its mechanical configuration.
//
// Given the grating line frequency (looked up from the grating identifier),
// the grating angle and the camera angle, the grating equation
//
//	lambda = 10 * (1e6 / frequency) * (sin(alpha) + sin(beta))
//
// with alpha = grating angle and beta = camera angle - grating angle yields
// the central wavelength in Angstrom. The blue and red limits offset beta by
// the camera half field and add empirical corrections. Per-pixel predictions
// add an arctangent term for the off-axis angle of a pixel relative to the
// detector reference pixel.
//
// All instrument constants live in [Instrument] and can be overridden with
// options; [DefaultInstrument] carries the values for the Goodman
// spectrograph.
package geometry
