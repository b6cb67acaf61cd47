package session

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-wavecal/calib"
)

var (
	// ErrConfirmationRequired is returned by an unconfirmed Clear.
	ErrConfirmationRequired = errors.New("session: clearing all marks requires confirmation")
	// ErrSessionClosed is returned for commands after Abandon or Accept.
	ErrSessionClosed = errors.New("session: closed")
	// ErrNilCommand is returned when Handle receives no command.
	ErrNilCommand = errors.New("session: nil command")
)

// Command is one user action. The set is closed: AddMark, RemoveMark, Fit,
// Evaluate, FindMoreLines, UndoAuto, Clear, Linearize, AutoSolve, Abandon.
type Command interface {
	fmt.Stringer
	command()
}

// AddMark records a mark on one side, snapped to the nearest detected line
// or catalog wavelength.
type AddMark struct {
	Side  calib.Side
	Value float64
}

// RemoveMark removes the mark nearest to Value on one side.
type RemoveMark struct {
	Side  calib.Side
	Value float64
}

// Fit fits a dispersion model through the completed pairs and evaluates it.
type Fit struct{}

// Evaluate re-scores the current model.
type Evaluate struct{}

// FindMoreLines adds suggested pairs predicted by the current model.
type FindMoreLines struct{}

// UndoAuto removes all suggested pairs.
type UndoAuto struct{}

// Clear removes every mark. Confirmed must be set.
type Clear struct {
	Confirmed bool
}

// Linearize resamples the lamp with the current model.
type Linearize struct{}

// AutoSolve requests automatic line identification, which is unsupported.
type AutoSolve struct{}

// Abandon closes the session without a solution.
type Abandon struct{}

func (AddMark) command()       {}
func (RemoveMark) command()    {}
func (Fit) command()           {}
func (Evaluate) command()      {}
func (FindMoreLines) command() {}
func (UndoAuto) command()      {}
func (Clear) command()         {}
func (Linearize) command()     {}
func (AutoSolve) command()     {}
func (Abandon) command()       {}

func (c AddMark) String() string     { return fmt.Sprintf("add-mark %s %g", c.Side, c.Value) }
func (c RemoveMark) String() string  { return fmt.Sprintf("remove-mark %s %g", c.Side, c.Value) }
func (Fit) String() string           { return "fit" }
func (Evaluate) String() string      { return "evaluate" }
func (FindMoreLines) String() string { return "find-more-lines" }
func (UndoAuto) String() string      { return "undo-auto" }
func (c Clear) String() string       { return fmt.Sprintf("clear confirmed=%t", c.Confirmed) }
func (Linearize) String() string     { return "linearize" }
func (AutoSolve) String() string     { return "auto-solve" }
func (Abandon) String() string       { return "abandon" }
