package logging

import (
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Info emits a structured info event with optional fields.
func Info(msg string, fields map[string]any) {
	logger.Info().Fields(fields).Msg(msg)
}

// Error emits a structured error event with optional fields.
func Error(msg string, fields map[string]any) {
	logger.Error().Fields(fields).Msg(msg)
}

// Logger exposes the underlying zerolog logger for callers that need
// sub-loggers with bound context.
func Logger() zerolog.Logger { return logger }
