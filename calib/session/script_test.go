package session

import (
	"strings"
	"testing"

	"github.com/cwbudde/algo-wavecal/calib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `
accept: true
steps:
  - {op: add-mark, side: pixel, value: 200}
  - {op: add-mark, side: wavelength, value: 4000}
  - {op: fit}
  - {op: find-more}
  - {op: clear, confirm: true}
  - {op: abandon}
`

func TestLoadScript(t *testing.T) {
	sc, err := LoadScript(strings.NewReader(sampleScript))
	require.NoError(t, err)
	assert.True(t, sc.Accept)

	cmds, err := sc.Commands()
	require.NoError(t, err)
	assert.Equal(t, []Command{
		AddMark{Side: calib.SidePixel, Value: 200},
		AddMark{Side: calib.SideWavelength, Value: 4000},
		Fit{},
		FindMoreLines{},
		Clear{Confirmed: true},
		Abandon{},
	}, cmds)
}

func TestLoadScriptRejectsUnknown(t *testing.T) {
	_, err := LoadScript(strings.NewReader("steps:\n  - {op: fit, colour: red}\n"))
	assert.Error(t, err)

	sc, err := LoadScript(strings.NewReader("steps:\n  - {op: fit}\n  - {op: explode}\n"))
	require.NoError(t, err)
	_, err = sc.Commands()
	assert.ErrorContains(t, err, "step 2")

	sc, err = LoadScript(strings.NewReader("steps:\n  - {op: add, side: up, value: 1}\n"))
	require.NoError(t, err)
	_, err = sc.Commands()
	assert.ErrorContains(t, err, "unknown side")
}

func TestLoadEmptyScript(t *testing.T) {
	sc, err := LoadScript(strings.NewReader(""))
	require.NoError(t, err)
	cmds, err := sc.Commands()
	require.NoError(t, err)
	assert.Empty(t, cmds)
}
