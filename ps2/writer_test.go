package ps2_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/hw/sim"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/ps2"
)

// scriptedDevice emulates the peripheral side of a host-to-device
// write. It drives the clock low/high on alternating host polls and
// samples the data line at each rising clock edge, which is when a real
// device latches the bit.
type scriptedDevice struct {
	clk *sim.Line
	dat *sim.Line

	clkPolls int
	bits     []bool

	ackPolls int
}

func newScriptedDevice() (*scriptedDevice, *sim.Line, *sim.Line) {
	d := &scriptedDevice{clk: &sim.Line{}, dat: &sim.Line{}}
	d.clk.ReadFunc = func() bool {
		d.clkPolls++
		high := d.clkPolls%2 == 0
		if high {
			d.bits = append(d.bits, !d.dat.DrivenLow())
		}
		return high
	}
	d.dat.ReadFunc = func() bool {
		// acknowledge pulse: assert low once, then release
		d.ackPolls++
		return d.ackPolls%2 == 0
	}
	return d, d.clk, d.dat
}

func TestWriterSendByte(t *testing.T) {
	tests := []struct {
		name   string
		value  byte
		parity bool // odd parity bit for the value
	}{
		{"even ones", 0x33, true},
		{"odd ones", 0x23, false},
		{"zero", 0x00, true},
		{"all ones", 0xff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, clk, dat := newScriptedDevice()

			clock := sim.NewClock()
			ring := &ps2.Ring{}
			recv := ps2.NewReceiver(dat, clock, ring)
			w := ps2.NewWriter(clk, dat, recv, func(d time.Duration) { clock.Advance(d) })

			require.NoError(t, w.SendByte(tt.value))

			// 8 data bits, parity, stop
			require.Len(t, dev.bits, 10)
			var got byte
			for i := 0; i < 8; i++ {
				if dev.bits[i] {
					got |= 1 << i
				}
			}
			assert.Equal(t, tt.value, got)
			assert.Equal(t, tt.parity, dev.bits[8], "odd parity bit")
			assert.True(t, dev.bits[9], "stop bit must be released high")
			assert.Zero(t, w.Timeouts())
		})
	}
}

func TestWriterBudgetExhausted(t *testing.T) {
	clk := &sim.Line{}
	dat := &sim.Line{}
	// clock stuck high: the device never answers the request-to-send
	clk.ReadFunc = func() bool { return true }

	clock := sim.NewClock()
	ring := &ps2.Ring{}
	recv := ps2.NewReceiver(dat, clock, ring)
	w := ps2.NewWriter(clk, dat, recv, func(d time.Duration) { clock.Advance(d) })
	w.WaitBudget = 50

	err := w.SendByte(0xf4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ps2.ErrBusTimeout)
	assert.Equal(t, uint32(1), w.Timeouts())
}

func TestWriterSuspendsReceiver(t *testing.T) {
	dev, clk, dat := newScriptedDevice()

	clock := sim.NewClock()
	ring := &ps2.Ring{}
	recv := ps2.NewReceiver(dat, clock, ring)
	w := ps2.NewWriter(clk, dat, recv, func(d time.Duration) { clock.Advance(d) })

	// half a device frame in progress when the host decides to write
	dat.SetPeer(true)
	clock.Advance(80 * time.Microsecond)
	recv.OnClockEdge()

	require.NoError(t, w.SendByte(0xf4))
	require.Len(t, dev.bits, 10)

	// the aborted frame is gone; the next device frame decodes cleanly
	h := &rxHarness{clock: clock, dat: dat, ring: ring, recv: recv}
	dat.ReadFunc = nil
	h.feedFrame(0xfa)
	got, ok := ring.Pop()
	require.True(t, ok)
	assert.Equal(t, byte(0xfa), got)
}
