package whatsapp

import (
	"fmt"
	"log/slog"

	waLog "go.mau.fi/whatsmeow/util/log"
)

// slogLogger adapts a *slog.Logger to the whatsmeow logging interface.
type slogLogger struct {
	l *slog.Logger
}

// NewLogger returns a whatsmeow logger that writes through l, tagging every
// record with the given module name.
func NewLogger(l *slog.Logger, module string) waLog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return &slogLogger{l: l.With("module", module)}
}

func (s *slogLogger) Errorf(msg string, args ...any) { s.l.Error(fmt.Sprintf(msg, args...)) }
func (s *slogLogger) Warnf(msg string, args ...any)  { s.l.Warn(fmt.Sprintf(msg, args...)) }
func (s *slogLogger) Infof(msg string, args ...any)  { s.l.Info(fmt.Sprintf(msg, args...)) }
func (s *slogLogger) Debugf(msg string, args ...any) { s.l.Debug(fmt.Sprintf(msg, args...)) }

func (s *slogLogger) Sub(module string) waLog.Logger {
	return &slogLogger{l: s.l.With("submodule", module)}
}
