// Package internal holds small helpers shared across this module's
// packages that have no business being part of the public API.
package internal

import (
	"context"
	"log/slog"
)

// LogAttrs is a nil-safe wrapper around (*slog.Logger).LogAttrs, used by
// every package's logger helper so a caller that never configures a
// *slog.Logger pays no logging cost instead of hitting a nil pointer.
func LogAttrs(l *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if l != nil {
		l.LogAttrs(context.Background(), level, msg, attrs...)
	}
}
