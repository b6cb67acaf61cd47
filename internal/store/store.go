// Package store persists accepted wavelength solutions in SQLite so later
// science exposures with a compatible instrument configuration can reuse
// them without a new fit.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/cwbudde/algo-wavecal/calib/dispersion"
	"github.com/cwbudde/algo-wavecal/calib/solution"
	"github.com/gofrs/flock"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("store: solution not found")

const lockRetry = 50 * time.Millisecond

// timeLayout is fixed width so created_at orders correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var schema = []string{`
CREATE TABLE IF NOT EXISTS solutions (
    id              TEXT PRIMARY KEY,
    created_at      TEXT NOT NULL,
    lamp            TEXT NOT NULL,
    camera          TEXT NOT NULL,
    fingerprint_key TEXT NOT NULL,
    fingerprint     TEXT NOT NULL,
    model           TEXT NOT NULL,
    rms             REAL NOT NULL,
    points          INTEGER NOT NULL,
    rejected        INTEGER NOT NULL,
    comment         TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_solutions_fingerprint ON solutions (fingerprint_key, created_at)`,
}

// Store manages solution persistence backed by SQLite. Writes are guarded by
// an advisory lock next to the database file.
type Store struct {
	db        *sql.DB
	path      string
	lock      *flock.Flock
	tolerance float64
}

// Option configures a Store.
type Option func(*Store)

// WithAngleTolerance sets the angle tolerance used by FindCompatible.
func WithAngleTolerance(deg float64) Option {
	return func(s *Store) {
		if deg >= 0 {
			s.tolerance = deg
		}
	}
}

// Open initializes or connects to the database at path.
func Open(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure store directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	s := &Store{
		db:        db,
		path:      path,
		lock:      flock.New(path + ".lock"),
		tolerance: solution.DefaultAngleTolerance,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database path.
func (s *Store) Path() string { return s.path }

// Save inserts sol.
func (s *Store) Save(ctx context.Context, sol *solution.Solution) error {
	ok, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	if !ok {
		return errors.New("store: lock is held by another process")
	}
	defer s.lock.Unlock()

	model, err := json.Marshal(sol.Model())
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	fp := sol.Fingerprint()
	fpJSON, err := json.Marshal(fp)
	if err != nil {
		return fmt.Errorf("marshal fingerprint: %w", err)
	}
	sum := sol.Summary()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO solutions (
            id, created_at, lamp, camera, fingerprint_key, fingerprint,
            model, rms, points, rejected, comment
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sol.ID(),
		sol.CreatedAt().UTC().Format(timeLayout),
		sol.Lamp(),
		fp.Kind(),
		fp.Key(),
		string(fpJSON),
		string(model),
		sum.RMS,
		sum.Points,
		sum.Rejected,
		sum.Comment,
	)
	if err != nil {
		return fmt.Errorf("insert solution: %w", err)
	}
	return nil
}

const selectColumns = `id, created_at, lamp, fingerprint, model, rms, points, rejected, comment`

// Get returns the solution with the given id.
func (s *Store) Get(ctx context.Context, id string) (*solution.Solution, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM solutions WHERE id = ?`, id)
	sol, err := scanSolution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sol, err
}

// List returns all solutions, newest first.
func (s *Store) List(ctx context.Context) ([]*solution.Solution, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM solutions ORDER BY created_at DESC`)
}

// FindCompatible returns the newest solution compatible with fp. When none
// is, the error wraps calib.ErrIncompatibleSolution and the returned
// Compatibility describes the newest candidate's first mismatch.
func (s *Store) FindCompatible(ctx context.Context, fp solution.Fingerprint) (*solution.Solution, solution.Compatibility, error) {
	sols, err := s.query(ctx,
		`SELECT `+selectColumns+` FROM solutions WHERE fingerprint_key = ? ORDER BY created_at DESC`, fp.Key())
	if err != nil {
		return nil, solution.Compatibility{}, err
	}

	var first solution.Compatibility
	for i, sol := range sols {
		c := sol.Fingerprint().CheckTolerance(fp, s.tolerance)
		if c.OK {
			return sol, c, nil
		}
		if i == 0 {
			first = c
		}
	}
	if len(sols) == 0 {
		return nil, first, fmt.Errorf("%w: no stored solution for %s grating %s", calib.ErrIncompatibleSolution, fp.Kind(), fp.Grating)
	}
	return nil, first, first.Err()
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]*solution.Solution, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query solutions: %w", err)
	}
	defer rows.Close()

	var out []*solution.Solution
	for rows.Next() {
		sol, err := scanSolution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate solutions: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSolution(row scanner) (*solution.Solution, error) {
	var (
		id, created, lamp, fpJSON, modelJSON, comment string
		rms                                           float64
		points, rejected                              int
	)
	if err := row.Scan(&id, &created, &lamp, &fpJSON, &modelJSON, &rms, &points, &rejected, &comment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan solution: %w", err)
	}

	createdAt, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("solution %s: parse created_at: %w", id, err)
	}
	var fp solution.Fingerprint
	if err := json.Unmarshal([]byte(fpJSON), &fp); err != nil {
		return nil, fmt.Errorf("solution %s: decode fingerprint: %w", id, err)
	}
	var model dispersion.Model
	if err := json.Unmarshal([]byte(modelJSON), &model); err != nil {
		return nil, fmt.Errorf("solution %s: decode model: %w", id, err)
	}
	return solution.Restore(id, createdAt, &model, lamp, solution.Summary{
		RMS:      rms,
		Points:   points,
		Rejected: rejected,
		Comment:  comment,
	}, fp), nil
}
