// Package hw defines the small hardware interfaces the protocol engines
// are written against. The engines themselves are platform independent;
// a real GPIO backend (e.g. a TinyGo shim) or the simulated backend in
// hw/sim provides the implementations.
package hw

import "time"

// Line models one open-collector bus line. The line idles high through
// an external pull-up; a driver may only ever pull it low. ReleaseHigh
// releases our driver so the pull-up (or a peer still driving) decides
// the level, which is then readable. DriveLow actively drives the line
// low, overriding any peer.
type Line interface {
	ReleaseHigh()
	DriveLow()
	Read() bool
}

// CarrierGate gates the fixed-frequency modulation carrier onto the
// infrared output line. The carrier's frequency and duty cycle are set
// once by the backend and never change; the transmit engine only ever
// switches the gate.
type CarrierGate interface {
	On()
	Off()
}

// IntervalTimer delivers a single callback per scheduled deadline. The
// transmit engine reprograms the next deadline from inside the callback,
// one phase at a time. Schedule replaces any pending deadline; Disable
// cancels it so no further callback fires until the next Schedule.
type IntervalTimer interface {
	Schedule(d time.Duration)
	Disable()
}

// Clock is a monotonic time source used for inter-edge gap measurement.
type Clock interface {
	Now() time.Duration
}
