// Package dispersion fits the pixel-to-wavelength relation of a lamp
// exposure.
//
// The model is a low-degree Chebyshev series (degree 3 by default) whose
// domain is mapped onto [-1, 1]. Coefficients are found by linear least
// squares with a QR factorisation of the design matrix. A fitted [Model] is
// an immutable value: refitting produces a new Model and identical input
// always yields identical coefficients.
package dispersion
