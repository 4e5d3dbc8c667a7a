package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// NewZerologLogger builds a zerolog logger for components that take one
// directly (database and influx managers). Writes console format with
// colors to stdout and without colors to the optional file.
func NewZerologLogger(file io.Writer) zerolog.Logger {
	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		},
	}
	if file != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	level := zerologLevel(viper.GetString("logLevel"))
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
}

func zerologLevel(level string) zerolog.Level {
	switch parseLevel(level) {
	case slog.LevelDebug:
		return zerolog.DebugLevel
	case slog.LevelWarn:
		return zerolog.WarnLevel
	case slog.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
