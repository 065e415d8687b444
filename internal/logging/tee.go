package logging

import (
	"context"
	"log/slog"
)

// Tee dispatches each record to every underlying handler that accepts it.
// It is used to combine terminal output with a JSON log file.
type Tee struct {
	handlers []slog.Handler
}

// NewTee creates a Tee over the given handlers.
func NewTee(handlers ...slog.Handler) *Tee {
	return &Tee{handlers: handlers}
}

// Enabled reports whether at least one underlying handler is enabled for the level.
func (t *Tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle dispatches the record to all enabled handlers, returning the first error.
func (t *Tee) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WithAttrs returns a new Tee where each underlying handler carries the attributes.
func (t *Tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return NewTee(handlers...)
}

// WithGroup returns a new Tee where each underlying handler carries the group.
func (t *Tee) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return NewTee(handlers...)
}
