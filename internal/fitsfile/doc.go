// Package fitsfile reads 1-D spectra from FITS files and writes linearized
// spectra with their wavelength solution keywords.
package fitsfile
