// Package simrig wires the full bridge stack onto the simulated
// hardware backend: clock, PS/2 lines, receive engine, joystick lines,
// infrared timer and carrier gate. The CLI run command and the
// integration tests drive and observe a Rig instead of real GPIO.
package simrig

import (
	"log/slog"
	"time"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/bridge"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/cdtv/ir"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/hw/sim"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/joystick"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/ps2"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/ps2/mouse"
)

// bitPeriod approximates the device-driven PS/2 clock: one falling edge
// per bit at roughly 12.5 kHz.
const bitPeriod = 80 * time.Microsecond

// Rig is the assembled simulated bridge.
type Rig struct {
	Clock *sim.Clock
	Timer *sim.Timer
	Gate  *sim.Gate

	PS2Clk *sim.Line
	PS2Dat *sim.Line

	Ring *ps2.Ring
	Recv *ps2.Receiver
	TX   *ir.Transmitter

	joyLines []*sim.Line
	Bridge   *bridge.Bridge
}

// New assembles a rig with idle inputs.
func New(logger *slog.Logger) *Rig {
	r := &Rig{
		Clock:  sim.NewClock(),
		PS2Clk: &sim.Line{},
		PS2Dat: &sim.Line{},
		Ring:   &ps2.Ring{},
	}
	r.Timer = sim.NewTimer(r.Clock)
	r.Gate = sim.NewGate(r.Clock)
	r.Recv = ps2.NewReceiver(r.PS2Dat, r.Clock, r.Ring)
	r.TX = ir.NewTransmitter(r.Gate, r.Timer)
	r.Timer.SetHandler(r.TX.Tick)

	r.joyLines = make([]*sim.Line, 6)
	for i := range r.joyLines {
		r.joyLines[i] = &sim.Line{}
	}
	joy := joystick.New(joystick.Lines{
		Up:      r.joyLines[0],
		Down:    r.joyLines[1],
		Left:    r.joyLines[2],
		Right:   r.joyLines[3],
		ButtonA: r.joyLines[4],
		ButtonB: r.joyLines[5],
	})

	r.Bridge = &bridge.Bridge{
		Mouse:  mouse.NewDecoder(r.Ring),
		Joy:    joy,
		TX:     r.TX,
		Ring:   r.Ring,
		Logger: logger,
	}
	return r
}

// FeedByte clocks one complete PS/2 frame for b into the receive
// engine: start bit, 8 data bits LSB first, odd parity, stop.
func (r *Rig) FeedByte(b byte) {
	parity := true
	bits := make([]bool, 0, 11)
	bits = append(bits, false) // start
	for i := 0; i < 8; i++ {
		bit := b&(1<<i) != 0
		if bit {
			parity = !parity
		}
		bits = append(bits, bit)
	}
	bits = append(bits, parity, true)

	for _, bit := range bits {
		r.PS2Dat.SetPeer(!bit)
		r.Clock.Advance(bitPeriod)
		r.Recv.OnClockEdge()
	}
	r.PS2Dat.SetPeer(false)
}

// FeedMousePacket synthesizes and feeds a well-formed three-byte
// movement packet.
func (r *Rig) FeedMousePacket(buttonA, buttonB bool, dx, dy int) {
	status := byte(0x08)
	if buttonA {
		status |= 0x01
	}
	if buttonB {
		status |= 0x02
	}
	if dx < 0 {
		status |= 0x10
	}
	if dy < 0 {
		status |= 0x20
	}
	r.FeedByte(status)
	r.FeedByte(byte(dx))
	r.FeedByte(byte(dy))
}

// SetJoystick pulls the lines for every set bit low, releasing the
// rest. Inputs are active low.
func (r *Rig) SetJoystick(s joystick.State) {
	masks := []joystick.State{
		joystick.Up, joystick.Down, joystick.Left,
		joystick.Right, joystick.ButtonA, joystick.ButtonB,
	}
	for i, m := range masks {
		r.joyLines[i].SetPeer(s&m != 0)
	}
}

// StepPeriod advances simulated time by one sampling period, firing
// every infrared timer deadline that falls due, then runs one dispatch
// cycle.
func (r *Rig) StepPeriod(period time.Duration) {
	r.Timer.FireUntil(r.Clock.Now() + period)
	r.Bridge.Step()
}

// DrainTX fires timer deadlines until the transmitter returns to idle.
func (r *Rig) DrainTX() {
	r.Timer.Run(128)
}
