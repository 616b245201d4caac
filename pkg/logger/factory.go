package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a JSON logger writing to stdout. Pass extractors to attach
// request-scoped attributes to every entry logged with a context.
func New(extractors ...ContextExtractor) *slog.Logger {
	return NewWithWriter(os.Stdout, extractors...)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(NewContextHandler(h, extractors...))
}
