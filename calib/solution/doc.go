// Package solution packages an accepted dispersion model for reuse.
//
// A [Solution] bundles the model, the lamp it was derived from, the
// evaluation summary and the instrument [Fingerprint] of that lamp. It never
// changes after creation. Before a stored solution is applied to another
// exposure, [Fingerprint.Check] compares the two instrument configurations:
// camera-specific keys must match exactly and the camera and grating angles
// must agree within a tolerance.
package solution
