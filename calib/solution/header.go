package solution

import "github.com/cwbudde/algo-wavecal/calib/linearize"

// Card is one output metadata keyword. HISTORY cards carry their text in
// Value.
type Card struct {
	Key     string
	Value   any
	Comment string
}

// HeaderCards returns the keywords describing a linear dispersion axis in
// the equispec convention, preceded by a HISTORY card with the evaluation
// comment when one is given.
func HeaderCards(lin *linearize.Spectrum, lamp, comment string) []Card {
	var cards []Card
	if comment != "" {
		cards = append(cards, Card{Key: "HISTORY", Value: comment})
	}
	return append(cards,
		Card{Key: "BANDID1", Value: "spectrum - background none, weights none, clean no"},
		Card{Key: "WCSDIM", Value: 1},
		Card{Key: "CTYPE1", Value: "LINEAR"},
		Card{Key: "CRVAL1", Value: lin.CRVAL},
		Card{Key: "CRPIX1", Value: lin.CRPIX},
		Card{Key: "CDELT1", Value: lin.CDELT},
		Card{Key: "CD1_1", Value: lin.CDELT},
		Card{Key: "LTM1_1", Value: 1.0},
		Card{Key: "WAT0_001", Value: "system=equispec"},
		Card{Key: "WAT1_001", Value: "wtype=linear label=Wavelength units=angstroms"},
		Card{Key: "DC-FLAG", Value: 0},
		Card{Key: "DCLOG1", Value: "REFSPEC1 = " + lamp},
	)
}
