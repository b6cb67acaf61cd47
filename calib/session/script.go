package session

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cwbudde/algo-wavecal/calib"
	"gopkg.in/yaml.v3"
)

// Step is one scripted command.
type Step struct {
	Op      string  `yaml:"op"`
	Side    string  `yaml:"side,omitempty"`
	Value   float64 `yaml:"value,omitempty"`
	Confirm bool    `yaml:"confirm,omitempty"`
}

// Script is a recorded sequence of commands, replayed by non-interactive
// front-ends.
//
//	accept: true
//	steps:
//	  - {op: add-mark, side: pixel, value: 200}
//	  - {op: add-mark, side: wavelength, value: 4000}
//	  - {op: fit}
type Script struct {
	// Accept asks the front-end to accept the solution after the last step.
	Accept bool   `yaml:"accept"`
	Steps  []Step `yaml:"steps"`
}

// LoadScript decodes a YAML script. Unknown fields are rejected.
func LoadScript(r io.Reader) (Script, error) {
	var sc Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return Script{}, fmt.Errorf("session: decode script: %w", err)
	}
	return sc, nil
}

// Commands converts every step, failing on the first invalid one.
func (sc Script) Commands() ([]Command, error) {
	out := make([]Command, 0, len(sc.Steps))
	for i, st := range sc.Steps {
		cmd, err := st.Command()
		if err != nil {
			return nil, fmt.Errorf("session: step %d: %w", i+1, err)
		}
		out = append(out, cmd)
	}
	return out, nil
}

// Command converts a step into a Command.
func (st Step) Command() (Command, error) {
	switch strings.ToLower(strings.TrimSpace(st.Op)) {
	case "add-mark", "add":
		side, err := parseSide(st.Side)
		if err != nil {
			return nil, err
		}
		return AddMark{Side: side, Value: st.Value}, nil
	case "remove-mark", "remove":
		side, err := parseSide(st.Side)
		if err != nil {
			return nil, err
		}
		return RemoveMark{Side: side, Value: st.Value}, nil
	case "fit":
		return Fit{}, nil
	case "evaluate", "eval":
		return Evaluate{}, nil
	case "find-more-lines", "find-more":
		return FindMoreLines{}, nil
	case "undo-auto":
		return UndoAuto{}, nil
	case "clear":
		return Clear{Confirmed: st.Confirm}, nil
	case "linearize":
		return Linearize{}, nil
	case "auto-solve", "auto":
		return AutoSolve{}, nil
	case "abandon":
		return Abandon{}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", st.Op)
	}
}

func parseSide(s string) (calib.Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pixel", "pix", "p":
		return calib.SidePixel, nil
	case "wavelength", "wave", "w":
		return calib.SideWavelength, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}
