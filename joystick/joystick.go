// Package joystick reads a digital joystick wired as active-low inputs
// on pulled-up lines. There is no protocol: one synchronous read per
// line, debouncing left to the hardware pull-ups.
package joystick

import "github.com/matsstaff/CDTV-PS2Mouse-Joy/hw"

// State is the sampled joystick state as a bitmask.
type State uint8

const (
	ButtonA State = 1 << iota
	ButtonB
	Right
	Left
	Up
	Down
)

// Joystick samples six active-low direction and button lines.
type Joystick struct {
	up, down, left, right hw.Line
	buttonA, buttonB      hw.Line
}

// Lines names the six inputs.
type Lines struct {
	Up, Down, Left, Right hw.Line
	ButtonA, ButtonB      hw.Line
}

func New(l Lines) *Joystick {
	return &Joystick{
		up: l.Up, down: l.Down, left: l.Left, right: l.Right,
		buttonA: l.ButtonA, buttonB: l.ButtonB,
	}
}

// Poll samples every line once. A line reading low is a pressed input.
func (j *Joystick) Poll() State {
	var s State
	if !j.up.Read() {
		s |= Up
	}
	if !j.down.Read() {
		s |= Down
	}
	if !j.left.Read() {
		s |= Left
	}
	if !j.right.Read() {
		s |= Right
	}
	if !j.buttonA.Read() {
		s |= ButtonA
	}
	if !j.buttonB.Read() {
		s |= ButtonB
	}
	return s
}
