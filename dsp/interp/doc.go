// Package interp resamples tabulated functions onto new abscissae.
//
// Available methods, from cheapest to highest fidelity:
//
//   - [ModeLinear]: piecewise linear
//   - [ModeAkima]:  Akima spline (local, resists overshoot on steep edges)
//   - [ModeCubic]:  not-a-knot cubic spline through every sample (default)
//
// [Resample] fits once and evaluates at every query point; [Spline] keeps a
// fitted interpolant for repeated evaluation. [ParabolicVertex] refines the
// location of a sampled extremum to sub-sample precision.
package interp
