package logging

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// MultiHandler fans one record stream out to the configured sinks:
// console always, plus the optional log file and GELF endpoint. All
// handlers receive every record they are enabled for.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler wraps pre-built handlers. Nil entries are dropped.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	valid := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			valid = append(valid, h)
		}
	}
	return &MultiHandler{handlers: valid}
}

// NewSinkHandler builds the fan-out for the standard sink set. Console
// and file get slog text format, Graylog gets GELF-framed JSON; all
// three share the level gate and RFC3339 UTC timestamps. file and gelf
// may be nil.
func NewSinkHandler(console, file, gelf io.Writer, level slog.Level) *MultiHandler {
	opts := sinkOptions(level)

	handlers := []slog.Handler{slog.NewTextHandler(console, opts)}
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, opts))
	}
	if gelf != nil {
		handlers = append(handlers, slog.NewJSONHandler(gelf, opts))
	}
	return NewMultiHandler(handlers...)
}

// sinkOptions applies the shared minimum level and rewrites record
// timestamps to RFC3339 UTC so file and Graylog entries collate.
func sinkOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}
}

// Enabled returns true if any handler is enabled for the given level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle sends the record to all handlers. A failing sink does not
// block the remaining sinks.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				continue
			}
		}
	}
	return nil
}

// WithAttrs returns a new MultiHandler with the given attributes added to all handlers.
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: handlers}
}

// WithGroup returns a new MultiHandler with the given group added to all handlers.
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: handlers}
}
