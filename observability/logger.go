// Package observability provides structured logging and metrics for the
// chat service. Internal diagnostics go through the logger; nothing from
// here is ever placed in a user-visible payload.
package observability

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global structured logger.
// Pretty output is for development; production gets JSON lines.
func InitLogger(level string, pretty bool) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logger zerolog.Logger
	if pretty {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(output).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	log.Logger = logger
	return logger
}

// RequestLogger returns a logger tagged with a per-request correlation ID.
func RequestLogger(base zerolog.Logger) zerolog.Logger {
	return base.With().Str("request_id", uuid.New().String()).Logger()
}
