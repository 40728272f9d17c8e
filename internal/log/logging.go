// Package log builds the configured slog.Logger for the bridge.
//
// Without a log file, records below error go to stdout and errors to
// stderr so the two streams can be redirected independently. With a
// file, everything additionally goes to the file.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelTrace is a custom level below debug used for per-frame and
// per-edge output.
const LevelTrace slog.Level = -8

func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// splitHandler fans out records to several handlers, each guarded by a
// level predicate.
type splitHandler struct {
	routes []route
}

type route struct {
	pass func(slog.Level) bool
	h    slog.Handler
}

func (s splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, r := range s.routes {
		if r.pass(level) && r.h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (s splitHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, r := range s.routes {
		if r.pass(rec.Level) && r.h.Enabled(ctx, rec.Level) {
			_ = r.h.Handle(ctx, rec)
		}
	}
	return nil
}

func (s splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]route, len(s.routes))
	for i, r := range s.routes {
		out[i] = route{pass: r.pass, h: r.h.WithAttrs(attrs)}
	}
	return splitHandler{routes: out}
}

func (s splitHandler) WithGroup(name string) slog.Handler {
	out := make([]route, len(s.routes))
	for i, r := range s.routes {
		out[i] = route{pass: r.pass, h: r.h.WithGroup(name)}
	}
	return splitHandler{routes: out}
}

func anyLevel(slog.Level) bool { return true }

// Setup builds the logger. The returned closers own any opened log
// file and must be closed on shutdown.
func Setup(level, file string) (*slog.Logger, []io.Closer, error) {
	lvl := ParseLevel(level)

	var routes []route
	routes = append(routes,
		route{
			pass: func(l slog.Level) bool { return l < slog.LevelError },
			h:    slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}),
		},
		route{
			pass: func(l slog.Level) bool { return l >= slog.LevelError },
			h:    slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}),
		},
	)

	var closers []io.Closer
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, f)
		routes = append(routes, route{
			pass: anyLevel,
			h:    slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl}),
		})
	}

	return slog.New(splitHandler{routes: routes}), closers, nil
}
