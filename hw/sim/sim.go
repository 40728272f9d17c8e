// Package sim provides in-memory implementations of the hw interfaces.
// It exists for the tests and for the CLI's simulated backend: the same
// engine code that would run against GPIO runs against these types with
// a manually advanced clock, which makes microsecond-level protocol
// behaviour exactly reproducible.
package sim

import (
	"time"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/hw"
)

// Clock is a virtual monotonic clock advanced explicitly by the test or
// the simulation loop.
type Clock struct {
	now time.Duration
}

func NewClock() *Clock { return &Clock{} }

func (c *Clock) Now() time.Duration { return c.now }

// Advance moves the clock forward. Time never goes backwards.
func (c *Clock) Advance(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// Line is an open-collector line shared between the engine under test
// and a simulated peer. The line reads high only when neither side is
// pulling it low. ReadFunc, when set, overrides the computed level; it
// is used to script a peer that reacts per read (e.g. a device driving
// the clock during a host-to-device write).
type Line struct {
	drivenLow bool
	peerLow   bool

	// ReadFunc overrides Read when non-nil.
	ReadFunc func() bool
}

var _ hw.Line = (*Line)(nil)

func (l *Line) ReleaseHigh() { l.drivenLow = false }
func (l *Line) DriveLow()    { l.drivenLow = true }

func (l *Line) Read() bool {
	if l.ReadFunc != nil {
		return l.ReadFunc()
	}
	return !l.drivenLow && !l.peerLow
}

// SetPeer simulates the device side of the line: low=true pulls the
// line low regardless of our own driver state.
func (l *Line) SetPeer(low bool) { l.peerLow = low }

// DrivenLow reports whether the engine side is currently driving low.
func (l *Line) DrivenLow() bool { return l.drivenLow }

// Timer is a one-deadline interval timer bound to a Clock. The harness
// advances simulated time with Fire/Run, which invokes the handler the
// engine registered, exactly as the hardware timer interrupt would.
type Timer struct {
	clock   *Clock
	handler func()

	pending  bool
	deadline time.Duration
}

var _ hw.IntervalTimer = (*Timer)(nil)

func NewTimer(clock *Clock) *Timer { return &Timer{clock: clock} }

// SetHandler registers the callback invoked at each deadline.
func (t *Timer) SetHandler(fn func()) { t.handler = fn }

func (t *Timer) Schedule(d time.Duration) {
	t.pending = true
	t.deadline = t.clock.now + d
}

func (t *Timer) Disable() { t.pending = false }

// Pending reports whether a deadline is armed.
func (t *Timer) Pending() bool { return t.pending }

// Fire advances the clock to the pending deadline and invokes the
// handler. It reports whether a deadline was pending.
func (t *Timer) Fire() bool {
	if !t.pending || t.handler == nil {
		return false
	}
	if t.deadline > t.clock.now {
		t.clock.now = t.deadline
	}
	t.pending = false
	t.handler()
	return true
}

// Run fires deadlines until the timer disables itself or max deadlines
// have fired. It returns the number of deadlines fired.
func (t *Timer) Run(max int) int {
	n := 0
	for n < max && t.Fire() {
		n++
	}
	return n
}

// FireUntil fires every pending deadline up to and including t1,
// advancing the clock through each, and returns the number fired. The
// clock is left at the later of its current time and t1.
func (t *Timer) FireUntil(t1 time.Duration) int {
	n := 0
	for t.pending && t.deadline <= t1 {
		if !t.Fire() {
			break
		}
		n++
	}
	if t.clock.now < t1 {
		t.clock.now = t1
	}
	return n
}

// Segment is one stretch of carrier-on or carrier-off time on the
// infrared output.
type Segment struct {
	Carrier  bool
	Duration time.Duration
}

// Gate records carrier gating against a Clock so tests can assert on
// the exact pulse train an encoder produced.
type Gate struct {
	clock *Clock

	on       bool
	lastEdge time.Duration
	started  bool
	segments []Segment
}

var _ hw.CarrierGate = (*Gate)(nil)

func NewGate(clock *Clock) *Gate { return &Gate{clock: clock} }

func (g *Gate) On()  { g.transition(true) }
func (g *Gate) Off() { g.transition(false) }

func (g *Gate) transition(on bool) {
	now := g.clock.now
	if g.started && on != g.on {
		g.segments = append(g.segments, Segment{Carrier: g.on, Duration: now - g.lastEdge})
	}
	if !g.started {
		g.started = true
	}
	g.on = on
	g.lastEdge = now
}

// CarrierOn reports the current gate state.
func (g *Gate) CarrierOn() bool { return g.on }

// Segments returns the completed carrier/silence segments recorded so
// far. The segment in progress (since the last transition) is excluded.
func (g *Gate) Segments() []Segment { return g.segments }

// Reset discards recorded segments, keeping the current gate state.
func (g *Gate) Reset() {
	g.segments = nil
	g.lastEdge = g.clock.now
}
