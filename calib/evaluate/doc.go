// Package evaluate scores a fitted dispersion model against a reference
// line catalog.
//
// Every detected line is mapped through the model and matched to the
// nearest catalog wavelength. The residuals are sigma clipped around their
// median and the RMS of the survivors measures the solution quality.
// [Evaluator.FindMoreLines] uses the same matching to propose additional
// correspondences, and [ReferenceOffset] measures a residual shift against a
// reference lamp spectrum by cross-correlation.
package evaluate
