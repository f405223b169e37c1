package cli

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wacheck/wacheck/internal/lookup"
)

func TestProgressReporterLines(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressReporter(&buf, false)

	p.Start(10)
	p.Result(3, 10, lookup.Result{Number: "+14155550123", Status: lookup.StatusRegistered})
	p.Result(4, 10, lookup.Result{Number: "+14155550124", Status: lookup.StatusNotRegistered})
	p.Result(10, 10, lookup.Result{Number: "+1", Status: lookup.StatusError})
	p.Done(lookup.Summary{Total: 3, Registered: 1, NotRegistered: 1, Errors: 1})

	out := buf.String()
	assert.Contains(t, out, "Checking 10 numbers...")
	assert.Contains(t, out, "[ 3/10] +14155550123     → ✓ Registered")
	assert.Contains(t, out, "[ 4/10] +14155550124     → ✗ Not Registered")
	assert.Contains(t, out, "[10/10] +1               → ⚠ Error")
	assert.Contains(t, out, "1 registered, 1 not registered, 1 errors")
	assert.NotContains(t, out, "\033[")
}

func TestProgressReporterSingular(t *testing.T) {
	var buf bytes.Buffer
	newProgressReporter(&buf, false).Start(1)
	assert.Contains(t, buf.String(), "Checking 1 number...")
}

func TestProgressReporterColor(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressReporter(&buf, true)
	p.Start(1)
	p.Result(1, 1, lookup.Result{Number: "+1", Status: lookup.StatusRegistered})
	assert.Contains(t, buf.String(), "\033[")
	assert.Contains(t, buf.String(), "Registered")
}

func TestNewLoggerAddsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, lvl := newLogger(&buf, "info", "json")
	logger.Info("hello")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, `"run_id":"`)
	assert.Contains(t, out, `"msg":"hello"`)
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, slog.LevelInfo, lvl.Level())
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := newLogger(&buf, "debug", "text")
	logger.Debug("detail", "n", 1)
	assert.True(t, strings.Contains(buf.String(), "msg=detail"))
	assert.Contains(t, buf.String(), "run_id=")
}

func TestQuietForTTY(t *testing.T) {
	tests := []struct {
		name  string
		level string
		tty   bool
		want  slog.Level
	}{
		{"tty info", "info", true, slog.LevelWarn},
		{"tty debug", "debug", true, slog.LevelDebug},
		{"tty error", "error", true, slog.LevelError},
		{"pipe info", "info", false, slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, lvl := newLogger(&bytes.Buffer{}, tt.level, "text")
			quietForTTY(lvl, tt.tty)
			assert.Equal(t, tt.want, lvl.Level())
		})
	}
}
