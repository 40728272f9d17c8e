package joystick_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/hw/sim"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/joystick"
)

func TestPollActiveLow(t *testing.T) {
	lines := make([]*sim.Line, 6)
	for i := range lines {
		lines[i] = &sim.Line{}
	}
	j := joystick.New(joystick.Lines{
		Up: lines[0], Down: lines[1], Left: lines[2],
		Right: lines[3], ButtonA: lines[4], ButtonB: lines[5],
	})

	// all lines pulled up: nothing pressed
	assert.Zero(t, j.Poll())

	lines[0].SetPeer(true) // up
	lines[4].SetPeer(true) // button A
	assert.Equal(t, joystick.Up|joystick.ButtonA, j.Poll())

	lines[0].SetPeer(false)
	assert.Equal(t, joystick.ButtonA, j.Poll())
}
