package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/cdtv"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/cdtv/ir"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/hw/sim"
)

// Encode renders the pulse train for a single code without any input
// hardware, for protocol debugging against a logic analyzer capture.
type Encode struct {
	Key    string `arg:"" optional:"" help:"Button name (e.g. play, 5) or raw 12-bit code (e.g. 0x4a1)"`
	Repeat bool   `help:"Encode the repeat frame instead of a code frame"`
}

func (e *Encode) Run(logger *slog.Logger) error {
	var code cdtv.Code
	if !e.Repeat {
		var err error
		if code, err = resolveCode(e.Key); err != nil {
			return err
		}
	}

	clock := sim.NewClock()
	timer := sim.NewTimer(clock)
	gate := sim.NewGate(clock)
	tx := ir.NewTransmitter(gate, timer)
	timer.SetHandler(tx.Tick)

	if e.Repeat {
		tx.SendRepeat()
	} else {
		tx.Send(code)
	}
	timer.Run(128)
	if !tx.Idle() {
		return fmt.Errorf("encoder did not return to idle")
	}

	segs := gate.Segments()
	logger.Debug("encoded frame", "code", uint16(code), "repeat", e.Repeat, "segments", len(segs))

	pretty := term.IsTerminal(int(os.Stdout.Fd()))
	var at time.Duration
	for _, s := range segs {
		kind := "space"
		if s.Carrier {
			kind = "mark "
		}
		if pretty {
			fmt.Printf("%10s  %s %-10s %s\n", at, kind, s.Duration, bar(s.Duration))
		} else {
			fmt.Printf("%d\t%s\t%d\n", at.Microseconds(), strings.TrimSpace(kind), s.Duration.Microseconds())
		}
		at += s.Duration
	}
	return nil
}

func resolveCode(key string) (cdtv.Code, error) {
	if key == "" {
		return 0, fmt.Errorf("a button name or raw code is required (or use --repeat)")
	}
	if c, ok := cdtv.Names[strings.ToLower(key)]; ok {
		return c, nil
	}
	n, err := strconv.ParseUint(key, 0, 16)
	if err != nil || n > cdtv.CodeMask {
		return 0, fmt.Errorf("unknown button %q (expected a name or a 12-bit code)", key)
	}
	return cdtv.Code(n), nil
}

// bar renders a proportional bar, one cell per 200µs, capped for the
// long lead mark.
func bar(d time.Duration) string {
	n := int(d / (200 * time.Microsecond))
	if n > 45 {
		n = 45
	}
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n)
}
