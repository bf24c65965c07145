package lneto8

import (
	"log/slog"

	"github.com/soypat/lneto8/internal"
)

// Logger wraps a *slog.Logger with the level-named helper methods used
// throughout this module. Embedding a nil Logger is safe: every call is
// a no-op until a *slog.Logger is set.
type Logger struct {
	Log *slog.Logger
}

func (l Logger) Error(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(l.Log, slog.LevelError, msg, attrs...)
}

func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(l.Log, slog.LevelWarn, msg, attrs...)
}

func (l Logger) Info(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(l.Log, slog.LevelInfo, msg, attrs...)
}

func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(l.Log, slog.LevelDebug, msg, attrs...)
}
