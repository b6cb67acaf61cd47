// Package peak locates local maxima in sampled signals.
//
// [RelMax] mirrors a windowed relative-maximum search: a sample is a peak when
// it is strictly greater than every neighbour within order samples on each
// side. Samples can be excluded with a validity bitmap built by [Threshold],
// so a genuine zero-intensity sample is never confused with a masked one.
package peak
