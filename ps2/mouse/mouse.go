// Package mouse decodes PS/2 mouse movement packets into the compact
// direction/button state the dispatch loop maps onto infrared codes.
package mouse

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/ps2"
)

// InputState is the decoded mouse state: two button bits plus four
// direction bits. Direction bits are recomputed from the deltas of the
// packet consumed on each Poll and are never sticky; button bits
// persist until a packet changes them.
type InputState uint8

const (
	ButtonA InputState = 1 << iota // left button
	ButtonB                        // right button
	Right
	Left
	Up
	Down
)

const buttonMask = ButtonA | ButtonB

// Status byte layout. Bits 2-3 are the alignment pattern used to detect
// packet framing: bit 3 is always set, bit 2 (middle button) never is
// on the supported device. Bits 6-7 flag delta overflow.
const (
	statusButtonA   = 1 << 0
	statusButtonB   = 1 << 1
	statusAlignMask = 0x0c
	statusAlignWant = 0x08
	statusSignX     = 1 << 4
	statusSignY     = 1 << 5
	statusOverflow  = 0xc0
)

// Decoder consumes completed bytes from the receive ring three at a
// time (status, dx, dy) and never partially consumes a packet.
type Decoder struct {
	ring *ps2.Ring

	buttons   InputState
	malformed atomic.Uint32
}

func NewDecoder(ring *ps2.Ring) *Decoder {
	return &Decoder{ring: ring}
}

// Poll decodes at most one movement packet and returns the current
// state. With fewer than three bytes buffered it returns the buttons
// from the last packet with no direction bits set.
//
// A packet whose alignment bits do not match is consumed anyway, so a
// framing slip cannot stall the ring, but its content is discarded for
// this cycle. Packets with the overflow bits set are discarded the same
// way.
func (d *Decoder) Poll() InputState {
	if d.ring.Len() < 3 {
		return d.buttons
	}

	status, _ := d.ring.Pop()
	rawDX, _ := d.ring.Pop()
	rawDY, _ := d.ring.Pop()

	if status&statusAlignMask != statusAlignWant || status&statusOverflow != 0 {
		d.malformed.Add(1)
		return d.buttons
	}

	d.buttons = 0
	if status&statusButtonA != 0 {
		d.buttons |= ButtonA
	}
	if status&statusButtonB != 0 {
		d.buttons |= ButtonB
	}

	state := d.buttons
	dx := delta(rawDX, status&statusSignX != 0)
	dy := delta(rawDY, status&statusSignY != 0)
	switch {
	case dx > 0:
		state |= Right
	case dx < 0:
		state |= Left
	}
	// The target protocol's vertical sense is inverted relative to
	// screen coordinates: a negative dy means "up".
	switch {
	case dy < 0:
		state |= Up
	case dy > 0:
		state |= Down
	}
	return state
}

// Malformed returns the number of packets discarded for bad alignment
// or overflow since creation.
func (d *Decoder) Malformed() uint32 {
	return d.malformed.Load()
}

// delta folds the status sign bit into the 8-bit magnitude, yielding
// the 9-bit two's-complement movement value.
func delta(raw byte, negative bool) int {
	if negative {
		return int(raw) - 256
	}
	return int(raw)
}

// Device configuration commands, host to mouse.
const (
	cmdReset        = 0xff
	cmdSetDefaults  = 0xf6
	cmdEnableReport = 0xf4
)

// resetSettle covers the mouse's self-test after a reset command before
// it will take further configuration.
const resetSettle = 500 * time.Millisecond

// Initialize puts the mouse into stream-reporting mode: reset, set
// defaults, enable data reporting. The acknowledge and self-test bytes
// the mouse sends back are drained from the ring so the first movement
// packet starts on a clean boundary.
func Initialize(w *ps2.Writer, ring *ps2.Ring, delay func(time.Duration)) error {
	if err := w.SendByte(cmdReset); err != nil {
		return fmt.Errorf("mouse reset: %w", err)
	}
	delay(resetSettle)
	drain(ring)

	if err := w.SendByte(cmdSetDefaults); err != nil {
		return fmt.Errorf("mouse set defaults: %w", err)
	}
	if err := w.SendByte(cmdEnableReport); err != nil {
		return fmt.Errorf("mouse enable reporting: %w", err)
	}
	delay(10 * time.Millisecond)
	drain(ring)
	return nil
}

func drain(ring *ps2.Ring) {
	for {
		if _, ok := ring.Pop(); !ok {
			return
		}
	}
}
