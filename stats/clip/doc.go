// Package clip implements iterative sigma clipping.
//
// Each iteration measures the centre (median by default) and the population
// standard deviation of the surviving values, then rejects every survivor
// whose distance from the centre exceeds Sigma standard deviations. Iteration
// stops after the configured number of rounds or once a round rejects
// nothing.
//
//	res := clip.Clip(residuals, clip.WithSigma(2), clip.WithIterations(5))
//	rms := res.RMS(residuals)
package clip
