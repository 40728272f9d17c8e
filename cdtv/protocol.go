// Package cdtv defines the infrared protocol constants of the CDTV
// remote-control receiver: frame timing, carrier parameters and the
// fixed 12-bit command table.
//
// A code frame is a 9 ms lead mark, 4.5 ms lead space, 12 data bits,
// the same 12 bits inverted, and a 400 µs trail mark. Each bit is a
// 400 µs mark followed by a 400 µs space (0) or a 1.2 ms space (1).
// While an input is held, the shorter repeat frame is sent instead:
// 9 ms mark, 2.1 ms space, 400 µs mark.
package cdtv

import "time"

const (
	// CarrierFrequency is the fixed infrared modulation frequency in Hz.
	CarrierFrequency = 40_000

	// CarrierDutyPercent is the fixed carrier duty cycle. Neither the
	// frequency nor the duty cycle is tunable at runtime.
	CarrierDutyPercent = 33
)

const (
	LeadMark    = 9 * time.Millisecond
	LeadSpace   = 4500 * time.Microsecond
	BitMark     = 400 * time.Microsecond
	Bit0Space   = 400 * time.Microsecond
	Bit1Space   = 1200 * time.Microsecond
	TrailMark   = 400 * time.Microsecond
	RepeatSpace = 2100 * time.Microsecond
)

const (
	// CodeBits is the payload width; a frame carries the code and its
	// bitwise complement back to back.
	CodeBits = 12
	CodeMask = 1<<CodeBits - 1
)
