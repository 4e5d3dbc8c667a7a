package logging

import (
	"context"
	"log/slog"

	"github.com/overmap/overmap/internal/session"
)

// SessionHandler stamps every record with the active map attributes
// from the shared session context, so storage and export logs carry
// mapId and worldId without each call site attaching them.
type SessionHandler struct {
	inner slog.Handler
	sess  *session.Context
}

// NewSessionHandler wraps inner with session stamping. A nil session
// leaves records untouched.
func NewSessionHandler(inner slog.Handler, sess *session.Context) *SessionHandler {
	return &SessionHandler{
		inner: inner,
		sess:  sess,
	}
}

// Enabled delegates to the inner handler.
func (h *SessionHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle appends the active map attributes and delegates.
func (h *SessionHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.sess != nil {
		if attrs := h.sess.Attrs(); len(attrs) > 0 {
			r.AddAttrs(attrs...)
		}
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs returns a new SessionHandler with the given attributes.
func (h *SessionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SessionHandler{
		inner: h.inner.WithAttrs(attrs),
		sess:  h.sess,
	}
}

// WithGroup returns a new SessionHandler with the given group.
func (h *SessionHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &SessionHandler{
		inner: h.inner.WithGroup(name),
		sess:  h.sess,
	}
}
