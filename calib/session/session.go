// Package session drives one interactive wavelength calibration.
//
// A [Session] owns every piece of state that changes while a user refines a
// solution: the detected lines of the lamp, the correspondence marks, the
// current dispersion model and the last evaluation. A front-end translates
// its input events into [Command] values and passes them to
// [Session.Handle], which applies them one at a time and returns a
// [Snapshot] to render. [Session.Accept] turns the current model into an
// immutable solution.
package session

import (
	"errors"
	"log/slog"
	"math"
	"sync"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/calib/dispersion"
	"github.com/cwbudde/algo-wavecal/calib/evaluate"
	"github.com/cwbudde/algo-wavecal/calib/geometry"
	"github.com/cwbudde/algo-wavecal/calib/lines"
	"github.com/cwbudde/algo-wavecal/calib/linearize"
	"github.com/cwbudde/algo-wavecal/calib/marks"
	"github.com/cwbudde/algo-wavecal/calib/solution"
	"github.com/cwbudde/algo-wavecal/dsp/core"
	"github.com/google/uuid"
)

// Snapshot is the renderable state after a command.
type Snapshot struct {
	ID              string
	Lines           []float64
	Pairs           []marks.Pair
	PixelMarks      []marks.Mark
	WavelengthMarks []marks.Mark
	Model           *dispersion.Model
	Evaluation      *evaluate.Evaluation
	Trend           evaluate.Trend
	RMSDelta        float64
	Linear          *linearize.Spectrum
	Characteristics *geometry.Characteristics
	// Proposed counts the pairs added by the last FindMoreLines.
	Proposed int
	Closed   bool
}

// Session is one calibration of one lamp. Commands are serialized; a
// Session may be shared between goroutines but handles one command at a time.
type Session struct {
	mu sync.Mutex

	id      string
	lamp    *calib.Spectrum
	catalog []float64
	lines   []float64
	geom    *geometry.Model

	store      *marks.Store
	fitOpts    []dispersion.Option
	evaluator  *evaluate.Evaluator
	linearizer *linearize.Linearizer
	snapping   bool
	logger     *slog.Logger

	model    *dispersion.Model
	eval     *evaluate.Evaluation
	prevRMS  float64
	trend    evaluate.Trend
	delta    float64
	linear   *linearize.Spectrum
	proposed int
	closed   bool
}

type config struct {
	logger     *slog.Logger
	detector   *lines.Detector
	fitOpts    []dispersion.Option
	evaluator  *evaluate.Evaluator
	linearizer *linearize.Linearizer
	geomOpts   []geometry.Option
	snapping   bool
}

// Option configures a Session.
type Option func(*config)

// WithLogger sets the logger for command diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDetector replaces the default line detector.
func WithDetector(d *lines.Detector) Option {
	return func(c *config) {
		if d != nil {
			c.detector = d
		}
	}
}

// WithFitOptions passes options to every fit.
func WithFitOptions(opts ...dispersion.Option) Option {
	return func(c *config) {
		c.fitOpts = append(c.fitOpts, opts...)
	}
}

// WithEvaluator replaces the default evaluator.
func WithEvaluator(e *evaluate.Evaluator) Option {
	return func(c *config) {
		if e != nil {
			c.evaluator = e
		}
	}
}

// WithLinearizer replaces the default linearizer.
func WithLinearizer(l *linearize.Linearizer) Option {
	return func(c *config) {
		if l != nil {
			c.linearizer = l
		}
	}
}

// WithGeometryOptions passes instrument constants to the geometry model.
func WithGeometryOptions(opts ...geometry.Option) Option {
	return func(c *config) {
		c.geomOpts = append(c.geomOpts, opts...)
	}
}

// WithSnapping enables or disables snapping of new marks.
func WithSnapping(on bool) Option {
	return func(c *config) {
		c.snapping = on
	}
}

// New detects the lines of lamp and opens a session against catalog.
// When the lamp metadata names a grating, the geometry model is derived from
// it; an unknown grating is a configuration error.
func New(lamp *calib.Spectrum, catalog []float64, opts ...Option) (*Session, error) {
	cfg := config{logger: slog.New(slog.DiscardHandler), snapping: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.detector == nil {
		cfg.detector = lines.New()
	}
	if cfg.evaluator == nil {
		cfg.evaluator = evaluate.New()
	}
	if cfg.linearizer == nil {
		cfg.linearizer = linearize.New()
	}

	found, err := cfg.detector.Pixels(lamp)
	if err != nil {
		return nil, err
	}

	var geom *geometry.Model
	if lamp.Header().Has(geometry.KeyGrating) {
		if geom, err = geometry.FromHeader(lamp.Header(), cfg.geomOpts...); err != nil {
			return nil, err
		}
	}

	s := &Session{
		id:         uuid.NewString(),
		lamp:       lamp,
		catalog:    append([]float64(nil), catalog...),
		lines:      found,
		geom:       geom,
		store:      marks.New(),
		fitOpts:    append([]dispersion.Option{dispersion.WithDomain(1, float64(lamp.Len())), dispersion.WithLabel(lamp.ID())}, cfg.fitOpts...),
		evaluator:  cfg.evaluator,
		linearizer: cfg.linearizer,
		snapping:   cfg.snapping,
		prevRMS:    math.NaN(),
	}
	s.logger = cfg.logger.With("session", s.id, "lamp", lamp.ID())
	s.logger.Info("calibration session opened", "lines", len(found), "catalog", len(catalog))
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Lines returns the detected line centres.
func (s *Session) Lines() []float64 { return append([]float64(nil), s.lines...) }

// Geometry returns the geometry model, or nil when the lamp carries no
// grating metadata.
func (s *Session) Geometry() *geometry.Model { return s.geom }

// Handle applies one command. On a recoverable failure the returned
// snapshot reflects the unchanged state.
func (s *Session) Handle(cmd Command) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.snapshot(), ErrSessionClosed
	}
	if cmd == nil {
		return s.snapshot(), ErrNilCommand
	}
	s.logger.Debug("handling command", "command", cmd.String())

	var err error
	switch c := cmd.(type) {
	case AddMark:
		s.store.Add(c.Side, s.snap(c.Side, c.Value))
	case RemoveMark:
		s.store.RemoveNearest(c.Side, c.Value)
	case Fit:
		err = s.fit()
	case Evaluate:
		err = s.evaluate()
	case FindMoreLines:
		err = s.findMore()
	case UndoAuto:
		n := s.store.UndoAuto()
		s.logger.Debug("removed suggested marks", "count", n)
	case Clear:
		if !c.Confirmed {
			err = ErrConfirmationRequired
			break
		}
		s.store.Clear()
	case Linearize:
		err = s.linearize()
	case AutoSolve:
		err = calib.ErrAutomaticUnsupported
	case Abandon:
		s.closed = true
		s.logger.Info("calibration session abandoned")
	default:
		err = errors.New("session: unknown command")
	}
	if err != nil {
		s.logger.Debug("command failed", "command", cmd.String(), "error", err)
	}
	return s.snapshot(), err
}

// snap moves a new mark onto the nearest detected line or catalog entry.
func (s *Session) snap(side calib.Side, v float64) float64 {
	if !s.snapping {
		return v
	}
	ref := s.lines
	if side == calib.SideWavelength {
		ref = s.catalog
	}
	if i := core.NearestIndex(ref, v); i >= 0 {
		return ref[i]
	}
	return v
}

func (s *Session) fit() error {
	if !s.store.Balanced() {
		pix, wav := s.store.Counts()
		return &calib.InsufficientDataError{Pixel: pix, Wavelength: wav, Required: 4}
	}
	pairs := s.store.Pairs()
	pix := make([]float64, len(pairs))
	wav := make([]float64, len(pairs))
	for i, p := range pairs {
		pix[i], wav[i] = p.Pixel, p.Wavelength
	}

	model, err := dispersion.Fit(pix, wav, s.fitOpts...)
	if err != nil {
		return err
	}
	s.model = model
	s.linear = nil
	s.logger.Info("dispersion model fitted", "pairs", len(pairs), "model", model.String())
	return s.evaluate()
}

func (s *Session) evaluate() error {
	ev, err := s.evaluator.Evaluate(s.model, s.lines, s.catalog)
	if err != nil {
		return err
	}
	if s.eval != nil {
		s.prevRMS = s.eval.RMS
	}
	s.eval = &ev
	s.trend, s.delta = evaluate.CompareRMS(s.prevRMS, ev.RMS)
	s.logger.Info("solution evaluated",
		"rms", ev.RMS,
		"points", ev.Points,
		"rejected", ev.Rejected,
		"trend", s.trend.String(),
	)
	return nil
}

func (s *Session) findMore() error {
	existing := s.store.Values(calib.SideWavelength)
	proposals, err := s.evaluator.FindMoreLines(s.model, s.lines, s.catalog, existing)
	if err != nil {
		return err
	}
	for _, p := range proposals {
		s.store.AddAuto(p.Pixel, p.Wavelength)
	}
	s.proposed = len(proposals)
	s.logger.Info("suggested additional lines", "count", len(proposals))
	return nil
}

func (s *Session) linearize() error {
	lin, err := s.linearizer.Apply(s.model, s.lamp)
	if err != nil {
		return err
	}
	s.linear = lin
	return nil
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:              s.id,
		Lines:           append([]float64(nil), s.lines...),
		Pairs:           s.store.Pairs(),
		PixelMarks:      s.store.Marks(calib.SidePixel),
		WavelengthMarks: s.store.Marks(calib.SideWavelength),
		Model:           s.model.Clone(),
		Evaluation:      s.eval,
		Trend:           s.trend,
		RMSDelta:        s.delta,
		Linear:          s.linear,
		Proposed:        s.proposed,
		Closed:          s.closed,
	}
	if s.geom != nil {
		c := s.geom.Characteristics()
		snap.Characteristics = &c
	}
	return snap
}

// Accept closes the session and returns the current model as a solution.
// The lamp metadata must identify the camera.
func (s *Session) Accept() (*solution.Solution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.model == nil {
		return nil, calib.ErrNoSolution
	}
	if s.eval == nil {
		if err := s.evaluate(); err != nil {
			return nil, err
		}
	}
	fp, err := solution.FingerprintFromHeader(s.lamp.Header())
	if err != nil {
		return nil, err
	}
	sol, err := solution.New(s.model, s.lamp.ID(), solution.Summary{
		RMS:      s.eval.RMS,
		Points:   s.eval.Points,
		Rejected: s.eval.Rejected,
		Comment:  s.eval.Comment(),
	}, fp)
	if err != nil {
		return nil, err
	}
	s.closed = true
	s.logger.Info("solution accepted", "solution", sol.ID(), "comment", sol.Summary().Comment)
	return sol, nil
}
