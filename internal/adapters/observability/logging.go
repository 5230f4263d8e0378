package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger on stdout.
// APP_ENV=dev (or development) uses a human-friendly console writer.
func NewLogger(env string) zerolog.Logger {
	return NewLoggerTo(os.Stdout, env)
}

// NewLoggerTo is NewLogger with a caller-chosen writer; the CLI logs to stderr.
func NewLoggerTo(w io.Writer, env string) zerolog.Logger {
	if env == "dev" || env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
