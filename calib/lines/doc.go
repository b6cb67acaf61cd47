// Package lines finds emission lines in a raw lamp spectrum and refines
// each one to a sub-pixel centre.
//
// Detection masks samples below a fraction of the intensity range, searches
// the masked signal for relative maxima, and recentres every maximum with an
// intensity-weighted centroid over a window that stops where the line's
// flanks end. Lines whose flanks drop off very unevenly are treated as
// blended and reported at the raw peak instead.
package lines
