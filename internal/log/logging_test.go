package log

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ParseLevel("trace"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
}

func TestTraceLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTrace(&buf)

	tr.Segment(0, true, 9*time.Millisecond)
	tr.Segment(9*time.Millisecond, false, 4500*time.Microsecond)
	tr.Edge(100*time.Microsecond, "ps2-clk", false)

	out := buf.String()
	assert.Contains(t, out, "ir mark  9ms")
	assert.Contains(t, out, "ir space 4.5ms")
	assert.Contains(t, out, "ps2-clk low")
}

func TestTraceLoggerNil(t *testing.T) {
	tr := NewTrace(nil)
	// must be a safe no-op
	tr.Segment(0, true, time.Millisecond)
	tr.Edge(0, "x", true)
}
