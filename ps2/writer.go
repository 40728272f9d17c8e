package ps2

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/hw"
)

// ErrBusTimeout is returned when the device stops driving the clock (or
// never acknowledges) during a host-to-device write. The wait budget is
// iteration-count based rather than wall-clock based, matching the
// polling discipline of the bus; see DefaultWaitBudget.
var ErrBusTimeout = errors.New("ps2: bus wait budget exhausted")

// DefaultWaitBudget bounds each busy-wait on a line transition. A
// disconnected or wedged device leaves the writer spinning through this
// many polls before it gives up, with the lines left in whatever state
// the last wait reached.
const DefaultWaitBudget = 10000

// inhibitTime is the minimum time the host holds the clock low to
// request the bus before a write.
const inhibitTime = 100 * time.Microsecond

// Writer sends single bytes from host to device, used only for device
// initialization and configuration, never steady-state traffic. It
// runs in normal (non-interrupt) context and blocks its caller for the
// duration of the handshake, tens of milliseconds worst case.
type Writer struct {
	clk  hw.Line
	dat  hw.Line
	recv *Receiver

	// Delay blocks for at least d. Backends map it to a microsecond
	// delay loop; the simulated backend advances virtual time.
	Delay func(d time.Duration)

	// WaitBudget bounds each line-transition busy-wait. Zero means
	// DefaultWaitBudget.
	WaitBudget int

	timeouts atomic.Uint32
}

// NewWriter returns a writer for the given clock and data lines. The
// receiver is suspended for the duration of every write: the host is
// about to drive the clock line, which would otherwise feed the
// receive engine garbage edges.
func NewWriter(clk, dat hw.Line, recv *Receiver, delay func(time.Duration)) *Writer {
	return &Writer{clk: clk, dat: dat, recv: recv, Delay: delay}
}

// SendByte transmits one byte per the PS/2 host-to-device handshake:
// inhibit (clock low ≥100 µs), request-to-send (data low, clock
// released), then the device clocks out 8 data bits LSB first, one odd
// parity bit and the stop bit, and finally acknowledges by pulsing
// data low. On any exhausted wait the error wraps ErrBusTimeout and
// the lines are left as the last wait found them.
func (w *Writer) SendByte(b byte) error {
	w.recv.Suspend()
	defer w.recv.Resume()

	// Request the bus.
	w.clk.DriveLow()
	w.Delay(inhibitTime)
	w.dat.DriveLow()
	w.clk.ReleaseHigh()

	// Data bits, LSB first, then odd parity. The device drives the
	// clock from here on; data changes while the clock is low.
	parity := true
	for i := 0; i < 8; i++ {
		bit := b&(1<<i) != 0
		if bit {
			parity = !parity
		}
		if err := w.writeBit(bit); err != nil {
			return fmt.Errorf("data bit %d: %w", i, err)
		}
	}
	if err := w.writeBit(parity); err != nil {
		return fmt.Errorf("parity bit: %w", err)
	}

	// Stop bit: release data and let the device clock it through.
	if err := w.writeBit(true); err != nil {
		return fmt.Errorf("stop bit: %w", err)
	}

	// Acknowledge pulse: device asserts data low, then releases it.
	if err := w.waitLine(w.dat, false); err != nil {
		return fmt.Errorf("ack assert: %w", err)
	}
	if err := w.waitLine(w.dat, true); err != nil {
		return fmt.Errorf("ack release: %w", err)
	}
	return nil
}

// writeBit presents one bit and waits for a full device-driven clock
// low→high transition.
func (w *Writer) writeBit(v bool) error {
	if v {
		w.dat.ReleaseHigh()
	} else {
		w.dat.DriveLow()
	}
	if err := w.waitLine(w.clk, false); err != nil {
		return err
	}
	return w.waitLine(w.clk, true)
}

// waitLine polls until the line reads the wanted level or the budget
// elapses.
func (w *Writer) waitLine(line hw.Line, want bool) error {
	budget := w.WaitBudget
	if budget <= 0 {
		budget = DefaultWaitBudget
	}
	for i := 0; i < budget; i++ {
		if line.Read() == want {
			return nil
		}
	}
	w.timeouts.Add(1)
	return ErrBusTimeout
}

// Timeouts returns the number of exhausted wait budgets observed since
// creation.
func (w *Writer) Timeouts() uint32 {
	return w.timeouts.Load()
}
