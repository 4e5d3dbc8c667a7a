package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/overmap/overmap/internal/session"
)

// SlogManager owns the process-wide structured logger. It fans records
// out to console, an optional log file and an optional GELF endpoint.
type SlogManager struct {
	logger *slog.Logger
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// stdout is swappable for tests.
var stdout io.Writer = os.Stdout

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system. file and gelf may be nil; the
// session, when non-nil, stamps every record with the active map.
func (m *SlogManager) Setup(file io.Writer, gelf io.Writer, level string, sess *session.Context) {
	var handler slog.Handler = NewSinkHandler(stdout, file, gelf, parseLevel(level))
	if sess != nil {
		handler = NewSessionHandler(handler, sess)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}
