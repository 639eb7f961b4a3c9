// Package logging defines the structured-logging interface used across the
// server and its slog and zerolog backends.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "request served", "path", path, "status", status)
type Logger interface {
	// Debug logs diagnostic detail that is off in production by default.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Backend names accepted by New.
const (
	BackendSlog    = "slog"
	BackendZerolog = "zerolog"
)

// New builds a Logger writing to w. backend selects slog or zerolog, format
// selects "json" (default) or "text" output.
func New(backend, format string, w io.Writer) (Logger, error) {
	text := strings.EqualFold(format, "text")

	switch strings.ToLower(backend) {
	case "", BackendSlog:
		var h slog.Handler
		if text {
			h = slog.NewTextHandler(w, nil)
		} else {
			h = slog.NewJSONHandler(w, nil)
		}
		return NewSlogLogger(slog.New(h)), nil
	case BackendZerolog:
		out := w
		if text {
			out = zerolog.ConsoleWriter{Out: w, NoColor: true}
		}
		return NewZerologLogger(zerolog.New(out).With().Timestamp().Logger()), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
