package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/internal/log"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunReplaysScript(t *testing.T) {
	script := `
events:
  - at: 0ms
    joystick: [up, a]
  - at: 200ms
    joystick: []
  - at: 400ms
    mouse: {dx: 5, dy: -3}
`
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))

	var trace bytes.Buffer
	r := Run{Script: path, Period: 60 * time.Millisecond, Duration: time.Second}
	require.NoError(t, r.Run(discardLogger(), log.NewTrace(&trace)))

	out := trace.String()
	assert.Contains(t, out, "mark", "the held joystick must put carrier on the wire")
	assert.Contains(t, out, "9ms", "frames open with the lead mark")
}

func TestRunIdleIsSilent(t *testing.T) {
	var trace bytes.Buffer
	r := Run{Duration: 500 * time.Millisecond, Period: 60 * time.Millisecond}
	require.NoError(t, r.Run(discardLogger(), log.NewTrace(&trace)))
	assert.Empty(t, trace.String(), "no input, nothing transmitted")
}

func TestRunMissingScript(t *testing.T) {
	r := Run{Script: "/does/not/exist.yaml"}
	err := r.Run(discardLogger(), log.NewTrace(nil))
	require.Error(t, err)
}
