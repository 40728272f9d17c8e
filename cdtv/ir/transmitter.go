// Package ir implements the CDTV infrared transmit engine: a pulse
// encoder driven one phase at a time by a hardware interval timer, with
// a gated fixed-frequency carrier as the output stage.
package ir

import (
	"sync"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/cdtv"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/hw"
)

// Transmit states. A code frame walks idle → lead mark → lead space →
// 48 data sub-phases (a mark and a space for each of the 24 bits: the
// 12-bit code followed by its bitwise complement) → trail mark → idle.
// A repeat frame takes the short path through repeat space.
type state uint8

const (
	stateIdle state = iota
	stateLeadMark
	stateLeadSpace
	stateData
	stateRepeatLead
	stateRepeatSpace
	stateTrailMark
)

const (
	dataSubPhases = 2 * cdtv.CodeBits * 2

	// complementSubPhase is the mark opening bit 13, the boundary at
	// which the shift register is reloaded with the code's complement.
	complementSubPhase = 2*cdtv.CodeBits + 1
)

// Transmitter encodes codes into timed carrier/silence intervals. The
// timer backend must invoke Tick at every scheduled deadline; Tick
// advances exactly one phase and programs the next deadline. No phase
// ever blocks or spins.
//
// Arming a transmission while another is mid-flight truncates the
// in-flight frame and restarts from the lead mark. Frames are
// superseded, never interleaved or queued; the receiver tolerates a
// truncated frame.
type Transmitter struct {
	// mu stands in for the interrupt-disabled instant around arming:
	// phase counter and deadline are reset atomically with respect to
	// a concurrent Tick.
	mu sync.Mutex

	gate  hw.CarrierGate
	timer hw.IntervalTimer

	state state
	sub   int
	code  cdtv.Code
	shift uint16
}

func NewTransmitter(gate hw.CarrierGate, timer hw.IntervalTimer) *Transmitter {
	return &Transmitter{gate: gate, timer: timer}
}

// Send arms transmission of a full code frame, superseding anything in
// flight.
func (t *Transmitter) Send(code cdtv.Code) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.code = code & cdtv.CodeMask
	t.shift = uint16(t.code)
	t.sub = 0
	t.state = stateLeadMark
	t.gate.On()
	t.timer.Schedule(cdtv.LeadMark)
}

// SendRepeat arms transmission of a repeat frame, superseding anything
// in flight.
func (t *Transmitter) SendRepeat() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sub = 0
	t.state = stateRepeatLead
	t.gate.On()
	t.timer.Schedule(cdtv.LeadMark)
}

// Idle reports whether no transmission is in flight.
func (t *Transmitter) Idle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == stateIdle
}

// Tick advances the pulse train by one phase. Interrupt context: it is
// invoked by the timer backend at each deadline it was given.
func (t *Transmitter) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case stateIdle:
		// stale deadline from a superseded frame
		t.timer.Disable()

	case stateLeadMark:
		t.gate.Off()
		t.state = stateLeadSpace
		t.timer.Schedule(cdtv.LeadSpace)

	case stateRepeatLead:
		t.gate.Off()
		t.state = stateRepeatSpace
		t.timer.Schedule(cdtv.RepeatSpace)

	case stateLeadSpace:
		t.sub = 1
		t.state = stateData
		t.gate.On()
		t.timer.Schedule(cdtv.BitMark)

	case stateData:
		t.stepData()

	case stateRepeatSpace:
		t.state = stateTrailMark
		t.gate.On()
		t.timer.Schedule(cdtv.TrailMark)

	case stateTrailMark:
		// stop: kill the carrier and the timer. Leaving the timer
		// armed would eventually wrap and retrigger a spurious phase.
		t.gate.Off()
		t.state = stateIdle
		t.timer.Disable()
	}
}

// stepData advances one of the 48 numbered data sub-phases. Odd
// sub-phases are marks; each even sub-phase is the space whose width
// encodes the bit shifted out.
func (t *Transmitter) stepData() {
	if t.sub%2 == 1 {
		// mark elapsed; emit the space for the current bit
		t.gate.Off()
		space := cdtv.Bit0Space
		if t.shift&1 != 0 {
			space = cdtv.Bit1Space
		}
		t.shift >>= 1
		t.sub++
		t.timer.Schedule(space)
		return
	}

	// space elapsed; open the next mark or close the frame
	t.sub++
	if t.sub > dataSubPhases {
		t.state = stateTrailMark
		t.gate.On()
		t.timer.Schedule(cdtv.TrailMark)
		return
	}
	if t.sub == complementSubPhase {
		t.shift = uint16(^t.code) & cdtv.CodeMask
	}
	t.gate.On()
	t.timer.Schedule(cdtv.BitMark)
}
