package solution

import (
	"slices"
	"time"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/calib/dispersion"
	"github.com/google/uuid"
)

// Summary is the evaluation recorded with a solution.
type Summary struct {
	RMS      float64
	Points   int
	Rejected int
	Comment  string
}

// Solution is an accepted wavelength solution. It is immutable.
type Solution struct {
	id          string
	model       dispersion.Model
	lamp        string
	summary     Summary
	fingerprint Fingerprint
	createdAt   time.Time
}

// New creates a solution with a fresh id.
func New(model *dispersion.Model, lamp string, summary Summary, fp Fingerprint) (*Solution, error) {
	if model == nil {
		return nil, calib.ErrNoSolution
	}
	return Restore(uuid.NewString(), time.Now().UTC(), model, lamp, summary, fp), nil
}

// Restore rebuilds a previously persisted solution.
func Restore(id string, createdAt time.Time, model *dispersion.Model, lamp string, summary Summary, fp Fingerprint) *Solution {
	m := *model
	m.Coefficients = slices.Clone(model.Coefficients)
	return &Solution{
		id:          id,
		model:       m,
		lamp:        lamp,
		summary:     summary,
		fingerprint: fp,
		createdAt:   createdAt,
	}
}

// ID returns the unique solution id.
func (s *Solution) ID() string { return s.id }

// Model returns a copy of the dispersion model.
func (s *Solution) Model() *dispersion.Model {
	return s.model.Clone()
}

// Lamp returns the identity of the lamp exposure used for the fit.
func (s *Solution) Lamp() string { return s.lamp }

// Summary returns the evaluation summary.
func (s *Solution) Summary() Summary { return s.summary }

// Fingerprint returns the instrument configuration of the lamp.
func (s *Solution) Fingerprint() Fingerprint { return s.fingerprint }

// CreatedAt returns the creation time.
func (s *Solution) CreatedAt() time.Time { return s.createdAt }

// Compatible checks whether the solution may be reused for data with the
// candidate fingerprint.
func (s *Solution) Compatible(candidate Fingerprint) Compatibility {
	return s.fingerprint.Check(candidate)
}

// CompatibleHeader reads the candidate fingerprint from metadata first.
// Unreadable metadata is reported as incompatible.
func (s *Solution) CompatibleHeader(h calib.Header) Compatibility {
	fp, err := FingerprintFromHeader(h)
	if err != nil {
		return Compatibility{Key: "header", Solution: s.fingerprint.Kind(), Candidate: err.Error()}
	}
	return s.Compatible(fp)
}
