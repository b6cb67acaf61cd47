// Package core provides small numeric helpers shared by the dsp, stats and
// calib packages: tolerant comparison, nearest-value search, medians and
// evenly spaced grids.
package core
