// Package conv provides cross-correlation of sampled spectra.
//
// Two strategies are offered:
//
//   - Direct correlation: O(N*M) lag-by-lag dot products, best for short inputs
//   - FFT correlation: zero-padded power-of-two transforms, best for full spectra
//
// [Correlate] selects between them by input size. All results use the "full"
// layout: for inputs of lengths N and M the output has N+M-1 samples and
// index k holds lag k-(M-1), where a positive lag means features in a sit
// at higher indices than in b.
//
//	corr, _ := conv.Correlate(observed, reference)
//	k, _ := conv.FindPeak(corr)
//	lag := conv.LagFromIndex(k, len(reference))
package conv
