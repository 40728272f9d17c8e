package ir_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/cdtv"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/cdtv/ir"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/hw/sim"
)

type txHarness struct {
	clock *sim.Clock
	timer *sim.Timer
	gate  *sim.Gate
	tx    *ir.Transmitter
}

func newTxHarness() *txHarness {
	h := &txHarness{clock: sim.NewClock()}
	h.timer = sim.NewTimer(h.clock)
	h.gate = sim.NewGate(h.clock)
	h.tx = ir.NewTransmitter(h.gate, h.timer)
	h.timer.SetHandler(h.tx.Tick)
	return h
}

// frameSegments is the segment count of a full code frame: lead mark,
// lead space, 48 bit sub-phases, trail mark.
const frameSegments = 2 + 48 + 1

// decodeFrame reconstructs the 24 transmitted bits from a recorded
// pulse train and returns the first and second 12-bit halves.
func decodeFrame(t *testing.T, segs []sim.Segment) (first, second uint16) {
	t.Helper()
	require.Len(t, segs, frameSegments)

	assert.Equal(t, sim.Segment{Carrier: true, Duration: cdtv.LeadMark}, segs[0])
	assert.Equal(t, sim.Segment{Carrier: false, Duration: cdtv.LeadSpace}, segs[1])
	assert.Equal(t, sim.Segment{Carrier: true, Duration: cdtv.TrailMark}, segs[frameSegments-1])

	for i := 0; i < 24; i++ {
		mark := segs[2+2*i]
		space := segs[3+2*i]
		assert.Equal(t, sim.Segment{Carrier: true, Duration: cdtv.BitMark}, mark, "bit %d mark", i)
		assert.False(t, space.Carrier, "bit %d space", i)

		var bit uint16
		switch space.Duration {
		case cdtv.Bit0Space:
			bit = 0
		case cdtv.Bit1Space:
			bit = 1
		default:
			t.Fatalf("bit %d: unexpected space width %s", i, space.Duration)
		}
		if i < 12 {
			first |= bit << i
		} else {
			second |= bit << (i - 12)
		}
	}
	return first, second
}

func TestTransmitCodeFrame(t *testing.T) {
	tests := []struct {
		name string
		code cdtv.Code
	}{
		{"joystick up+a", cdtv.ClassJoy | cdtv.BitUp | cdtv.BitButtonA},
		{"mouse right", cdtv.ClassMouse | cdtv.BitRight},
		{"all ones", cdtv.Code(0xfff)},
		{"alternating", cdtv.Code(0xaaa)},
		{"single bit", cdtv.Code(0x001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTxHarness()
			h.tx.Send(tt.code)
			h.timer.Run(128)

			require.True(t, h.tx.Idle())
			assert.False(t, h.timer.Pending(), "timer must be disabled after the frame")
			assert.False(t, h.gate.CarrierOn())

			first, second := decodeFrame(t, h.gate.Segments())
			assert.Equal(t, uint16(tt.code), first)
			assert.Equal(t, ^uint16(tt.code)&cdtv.CodeMask, second,
				"second half must be the bitwise complement")
		})
	}
}

func TestTransmitRepeatFrame(t *testing.T) {
	h := newTxHarness()
	h.tx.SendRepeat()
	h.timer.Run(16)

	require.True(t, h.tx.Idle())
	assert.False(t, h.timer.Pending())

	want := []sim.Segment{
		{Carrier: true, Duration: cdtv.LeadMark},
		{Carrier: false, Duration: cdtv.RepeatSpace},
		{Carrier: true, Duration: cdtv.TrailMark},
	}
	assert.Equal(t, want, h.gate.Segments())
}

func TestTransmitSupersedesInFlight(t *testing.T) {
	h := newTxHarness()

	h.tx.Send(cdtv.Code(0x555))
	// run partway into the data bits
	h.timer.Run(9)
	require.False(t, h.tx.Idle())

	// a new request truncates the in-flight frame and restarts cleanly
	h.tx.Send(cdtv.Code(0x2c1))
	h.gate.Reset()
	h.timer.Run(128)

	first, second := decodeFrame(t, h.gate.Segments())
	assert.Equal(t, uint16(0x2c1), first)
	assert.Equal(t, ^uint16(0x2c1)&uint16(cdtv.CodeMask), second)
}

func TestRepeatSupersedesCodeFrame(t *testing.T) {
	h := newTxHarness()

	h.tx.Send(cdtv.Code(0xfff))
	h.timer.Run(5)
	h.tx.SendRepeat()
	h.gate.Reset()
	h.timer.Run(16)

	require.True(t, h.tx.Idle())
	require.Len(t, h.gate.Segments(), 3)
	assert.Equal(t, cdtv.RepeatSpace, h.gate.Segments()[1].Duration)
}

func TestSpuriousTickWhileIdle(t *testing.T) {
	h := newTxHarness()
	// a stale deadline firing while idle must only disable the timer
	h.timer.Schedule(time.Millisecond)
	h.timer.Fire()
	assert.False(t, h.timer.Pending())
	assert.Empty(t, h.gate.Segments())
	assert.True(t, h.tx.Idle())
}

func TestFrameDuration(t *testing.T) {
	// total frame time is the sum of the fixed phases plus the
	// bit-dependent spaces
	h := newTxHarness()
	start := h.clock.Now()
	h.tx.Send(cdtv.Code(0x000))
	h.timer.Run(128)

	var want time.Duration
	want += cdtv.LeadMark + cdtv.LeadSpace + cdtv.TrailMark
	want += 24 * cdtv.BitMark
	want += 12 * cdtv.Bit0Space // code half: all zeros
	want += 12 * cdtv.Bit1Space // complement half: all ones
	assert.Equal(t, want, h.clock.Now()-start)
}
