// Package ps2 implements the host side of the PS/2 bit-level protocol:
// an edge-driven receive engine with a lock-free byte ring, and a
// host-to-device command writer with clock-line arbitration.
package ps2

import (
	"time"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/hw"
)

// resyncGap is the inter-edge gap beyond which a partially received
// frame is abandoned. A lost clock edge would otherwise leave the bit
// counter out of step with the device forever; resetting on the next
// edge is the sole recovery mechanism, so it runs inline in the edge
// path, not as a separate timeout task.
const resyncGap = 5 * time.Millisecond

// Frame layout as edge counts: 1 start, 8 data (LSB first), 1 parity,
// 1 stop. Parity is sampled but not validated; the consumer validates
// by content.
const (
	edgeStart    = 1
	edgeLastData = 9
	edgeStop     = 11
)

// Receiver reconstructs bytes from the PS/2 clock and data lines. The
// backend must call OnClockEdge on every falling edge of the clock
// line. The receiver never blocks and shares nothing with the rest of
// the system except the ring.
type Receiver struct {
	dat   hw.Line
	clock hw.Clock
	ring  *Ring

	shift    byte
	edges    int
	lastEdge time.Duration

	suspended bool
}

// NewReceiver returns a receiver decoding the given data line. The
// clock line itself is not read; its falling edges arrive through
// OnClockEdge.
func NewReceiver(dat hw.Line, clock hw.Clock, ring *Ring) *Receiver {
	return &Receiver{dat: dat, clock: clock, ring: ring}
}

// OnClockEdge decodes one falling edge of the device-driven clock.
// Interrupt context: it must not block and it touches nothing shared
// except the ring's producer side.
func (r *Receiver) OnClockEdge() {
	if r.suspended {
		return
	}

	now := r.clock.Now()
	if r.edges > 0 && now-r.lastEdge > resyncGap {
		r.edges = 0
	}
	r.lastEdge = now

	bit := r.dat.Read()
	r.edges++

	switch {
	case r.edges == edgeStart:
		// start bit, sample discarded
	case r.edges <= edgeLastData:
		r.shift >>= 1
		if bit {
			r.shift |= 0x80
		}
		if r.edges == edgeLastData {
			r.ring.Push(r.shift)
		}
	case r.edges >= edgeStop:
		// stop bit consumed, ready for the next frame
		r.edges = 0
	default:
		// parity bit, sampled but not validated
	}
}

// Suspend masks the receiver while the host drives the clock line
// itself (see Writer). Edges delivered while suspended are discarded.
func (r *Receiver) Suspend() {
	r.suspended = true
}

// Resume re-arms the receiver after a host-to-device write. Any frame
// that was in progress, and any edge latched during the handshake, is
// discarded; decoding restarts at the next clean frame boundary.
func (r *Receiver) Resume() {
	r.edges = 0
	r.shift = 0
	r.lastEdge = r.clock.Now()
	r.suspended = false
}
