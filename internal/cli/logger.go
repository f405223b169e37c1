package cli

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// newLogger builds the process logger on w. Every record carries a run_id.
// Interactive commands lower the returned LevelVar while the spinner and
// progress lines are on screen.
func newLogger(w io.Writer, level, format string) (*slog.Logger, *slog.LevelVar) {
	var lvlVar slog.LevelVar
	lvlVar.Set(parseSlogLevel(level))

	opts := &slog.HandlerOptions{Level: &lvlVar}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("run_id", uuid.NewString()), &lvlVar
}

func parseSlogLevel(level string) slog.Level {
	switch level {
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

// quietForTTY raises the level to warn on a terminal unless the operator
// asked for more detail than info.
func quietForTTY(lvl *slog.LevelVar, isTTY bool) {
	if isTTY && lvl.Level() == slog.LevelInfo {
		lvl.Set(slog.LevelWarn)
	}
}
