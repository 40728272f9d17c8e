// Package bridge is the dispatch loop tying the input side (PS/2 mouse
// decoder, polled joystick) to the infrared transmit engine. Every
// sampling period it reduces both inputs to one 12-bit code and decides
// between sending a new code frame, a repeat frame, or nothing.
package bridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/cdtv"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/cdtv/ir"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/joystick"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/ps2"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/ps2/mouse"
)

// DefaultPeriod is the input sampling cadence. Repeat frames go out at
// this same cadence while an input is held.
const DefaultPeriod = 60 * time.Millisecond

// Bridge owns one sampling cycle: poll inputs, map to a code, arm the
// transmitter. It never blocks inside a cycle; both protocol engines
// run from their own interrupt contexts.
type Bridge struct {
	Mouse  *mouse.Decoder
	Joy    *joystick.Joystick
	TX     *ir.Transmitter
	Ring   *ps2.Ring
	Logger *slog.Logger

	last cdtv.Code
}

// Step runs one sampling cycle and returns the code it transmitted
// (zero when input was idle and nothing was sent).
func (b *Bridge) Step() cdtv.Code {
	var ms mouse.InputState
	if b.Mouse != nil {
		ms = b.Mouse.Poll()
	}
	var js joystick.State
	if b.Joy != nil {
		js = b.Joy.Poll()
	}

	code := MapCode(ms, js)
	switch {
	case code == 0:
		// no input; nothing on the wire
	case code != b.last:
		b.TX.Send(code)
	default:
		b.TX.SendRepeat()
	}
	b.last = code
	return code
}

// Run samples on a fixed period until the context is cancelled. On
// cancellation it logs the accumulated silent-failure counters (ring
// drops, malformed packets) once at debug level.
func (b *Bridge) Run(ctx context.Context, period time.Duration) error {
	if period <= 0 {
		period = DefaultPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.logCounters()
			return ctx.Err()
		case <-ticker.C:
			prev := b.last
			if code := b.Step(); code != 0 && b.Logger != nil {
				b.Logger.Debug("transmit", "code", uint16(code), "repeat", code == prev)
			}
		}
	}
}

func (b *Bridge) logCounters() {
	if b.Logger == nil {
		return
	}
	attrs := []any{}
	if b.Ring != nil {
		attrs = append(attrs, "ring_drops", b.Ring.Drops())
	}
	if b.Mouse != nil {
		attrs = append(attrs, "malformed_packets", b.Mouse.Malformed())
	}
	b.Logger.Debug("input counters", attrs...)
}

// MapCode merges the two input states into one transmit code. Joystick
// input wins when both devices are active in the same cycle; the code
// carries the class of the device it came from.
func MapCode(ms mouse.InputState, js joystick.State) cdtv.Code {
	if js != 0 {
		return cdtv.ClassJoy | inputBits(uint8(js))
	}
	if ms != 0 {
		return cdtv.ClassMouse | inputBits(uint8(ms))
	}
	return 0
}

// inputBits relies on mouse.InputState and joystick.State sharing the
// same bit layout as the low bits of the wire code.
func inputBits(v uint8) cdtv.Code {
	var c cdtv.Code
	if v&uint8(mouse.ButtonA) != 0 {
		c |= cdtv.BitButtonA
	}
	if v&uint8(mouse.ButtonB) != 0 {
		c |= cdtv.BitButtonB
	}
	if v&uint8(mouse.Up) != 0 {
		c |= cdtv.BitUp
	}
	if v&uint8(mouse.Down) != 0 {
		c |= cdtv.BitDown
	}
	if v&uint8(mouse.Left) != 0 {
		c |= cdtv.BitLeft
	}
	if v&uint8(mouse.Right) != 0 {
		c |= cdtv.BitRight
	}
	return c
}
