// Package observe holds the structured logger, request IDs and counters shared
// by the service, server and worker.
package observe

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// PreviewLength is the number of characters of free text included in log events.
const PreviewLength = 80

type requestIDKey struct{}

// NewLogger builds a slog logger writing to stderr.
func NewLogger(level string, format string) (logger *slog.Logger, err error) {
	logger, err = NewLoggerTo(os.Stderr, level, format)
	return logger, err
}

// NewLoggerTo builds a slog logger writing to w.
func NewLoggerTo(w io.Writer, level string, format string) (logger *slog.Logger, err error) {
	var lvl slog.Level
	lvl, err = ParseLevel(level)
	if err != nil {
		return logger, err
	}

	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", FormatText:
		logger = slog.New(slog.NewTextHandler(w, opts))
	case FormatJSON:
		logger = slog.New(slog.NewJSONHandler(w, opts))
	default:
		err = errors.Errorf("unknown log format: %s", format)
	}

	return logger, err
}

// ParseLevel maps debug, info, warn and error to slog levels. Empty means info.
func ParseLevel(level string) (lvl slog.Level, err error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "", "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		err = errors.Errorf("unknown log level: %s", level)
	}
	return lvl, err
}

// Discard returns a logger that drops everything.
func Discard() (logger *slog.Logger) {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return logger
}

// NewRequestID returns a fresh random request ID.
func NewRequestID() (id string) {
	id = uuid.NewString()
	return id
}

// WithRequestID stores id in ctx.
func WithRequestID(ctx context.Context, id string) (out context.Context) {
	out = context.WithValue(ctx, requestIDKey{}, id)
	return out
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) (id string) {
	id, _ = ctx.Value(requestIDKey{}).(string)
	return id
}

// Preview shortens text for a log attribute.
func Preview(text string) (preview string) {
	preview = strutil.TruncateWith(strings.Join(strings.Fields(text), " "), PreviewLength, "...")
	return preview
}
