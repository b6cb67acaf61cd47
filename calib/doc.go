// Package calib holds the types shared by the wavelength-calibration engine:
// the immutable [Spectrum] with its exposure [Header], and the error taxonomy
// every calibration stage reports through.
//
// The engine itself lives in the sub-packages, leaf-first:
//
//   - [github.com/cwbudde/algo-wavecal/calib/geometry]:   instrument-geometry wavelength prediction
//   - [github.com/cwbudde/algo-wavecal/calib/lines]:      emission-line detection and centroiding
//   - [github.com/cwbudde/algo-wavecal/calib/marks]:      pixel/wavelength correspondence store
//   - [github.com/cwbudde/algo-wavecal/calib/dispersion]: Chebyshev dispersion model fitting
//   - [github.com/cwbudde/algo-wavecal/calib/evaluate]:   sigma-clipped residual evaluation
//   - [github.com/cwbudde/algo-wavecal/calib/linearize]:  resampling onto a uniform wavelength grid
//   - [github.com/cwbudde/algo-wavecal/calib/solution]:   reusable wavelength solutions
//   - [github.com/cwbudde/algo-wavecal/calib/session]:    command-driven calibration session
//
// Error classes:
//
//   - [ErrConfiguration]: unknown grating or missing instrument key, fatal for the lamp
//   - [ErrInsufficientData]: too few or unbalanced correspondences, recoverable
//   - [ErrNoSolution]: an operation needs a fitted model that does not exist yet
//   - [ErrIncompatibleSolution]: a stored solution cannot be reused for an exposure
//   - [ErrComputation]: numerical failure, carries the spectrum identity
package calib
