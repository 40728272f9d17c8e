package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/bridge"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/internal/log"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/internal/simrig"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/joystick"
)

// Run replays an input script through the simulated backend and traces
// the infrared output. Without a script the inputs stay idle for the
// whole run, which is useful only to verify that nothing is transmitted
// while idle.
type Run struct {
	Script   string        `arg:"" optional:"" help:"YAML input script to replay"`
	Period   time.Duration `help:"Input sampling period" default:"60ms"`
	Duration time.Duration `help:"Simulated run time" default:"2s"`
}

// script is the YAML replay format: a list of timed input events.
type script struct {
	Events []scriptEvent `yaml:"events"`
}

type scriptEvent struct {
	At       time.Duration `yaml:"at"`
	Joystick []string      `yaml:"joystick"`
	Mouse    *mouseEvent   `yaml:"mouse"`
}

type mouseEvent struct {
	DX      int  `yaml:"dx"`
	DY      int  `yaml:"dy"`
	ButtonA bool `yaml:"buttonA"`
	ButtonB bool `yaml:"buttonB"`
}

var joyNames = map[string]joystick.State{
	"up":    joystick.Up,
	"down":  joystick.Down,
	"left":  joystick.Left,
	"right": joystick.Right,
	"a":     joystick.ButtonA,
	"b":     joystick.ButtonB,
}

func (r *Run) Run(logger *slog.Logger, tracer log.TraceLogger) error {
	var sc script
	if r.Script != "" {
		data, err := os.ReadFile(r.Script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return fmt.Errorf("parse script: %w", err)
		}
	}
	sort.SliceStable(sc.Events, func(i, j int) bool { return sc.Events[i].At < sc.Events[j].At })

	period := r.Period
	if period <= 0 {
		period = bridge.DefaultPeriod
	}

	rig := simrig.New(logger)
	logger.Info("starting simulated bridge",
		"period", period, "duration", r.Duration, "events", len(sc.Events))

	next := 0
	emitted := 0
	for now := time.Duration(0); now < r.Duration; now = rig.Clock.Now() {
		for next < len(sc.Events) && sc.Events[next].At <= now {
			applyEvent(rig, sc.Events[next])
			next++
		}
		rig.StepPeriod(period)
		emitted = traceSegments(tracer, rig, emitted)
	}
	rig.DrainTX()
	traceSegments(tracer, rig, emitted)

	logger.Info("simulated run complete",
		"ring_drops", rig.Ring.Drops(),
		"malformed_packets", rig.Bridge.Mouse.Malformed())
	return nil
}

func applyEvent(rig *simrig.Rig, ev scriptEvent) {
	if ev.Joystick != nil {
		var s joystick.State
		for _, name := range ev.Joystick {
			s |= joyNames[name]
		}
		rig.SetJoystick(s)
	}
	if ev.Mouse != nil {
		rig.FeedMousePacket(ev.Mouse.ButtonA, ev.Mouse.ButtonB, ev.Mouse.DX, ev.Mouse.DY)
	}
}

// traceSegments emits any newly completed carrier segments, returning
// the updated count of segments already emitted.
func traceSegments(tracer log.TraceLogger, rig *simrig.Rig, emitted int) int {
	segs := rig.Gate.Segments()
	var at time.Duration
	for i, s := range segs {
		if i >= emitted {
			tracer.Segment(at, s.Carrier, s.Duration)
		}
		at += s.Duration
	}
	return len(segs)
}
