package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// TraceLogger renders raw line-level activity: infrared carrier
// segments and PS/2 edges. One event per line, virtual timestamp first,
// so a capture can be diffed against a logic-analyzer trace.
type TraceLogger interface {
	Segment(at time.Duration, carrier bool, d time.Duration)
	Edge(at time.Duration, line string, level bool)
}

type traceLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewTrace creates a TraceLogger. A nil writer yields a no-op logger.
func NewTrace(w io.Writer) TraceLogger {
	return &traceLogger{w: w}
}

func (t *traceLogger) Segment(at time.Duration, carrier bool, d time.Duration) {
	state := "space"
	if carrier {
		state = "mark"
	}
	t.emit("%12s ir %-5s %s\n", at, state, d)
}

func (t *traceLogger) Edge(at time.Duration, line string, level bool) {
	lv := "low"
	if level {
		lv = "high"
	}
	t.emit("%12s %s %s\n", at, line, lv)
}

func (t *traceLogger) emit(format string, args ...any) {
	if t.w == nil {
		return
	}
	t.mu.Lock()
	_, _ = fmt.Fprintf(t.w, format, args...)
	t.mu.Unlock()
}
