package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sidtheone/ecoticker-sub001/config"
)

// NewLogger creates a new logger from config
func NewLogger(cfg *config.LoggingConfig, svc *config.ServiceConfig) zerolog.Logger {
	return New(cfg.Level, svc.Name, svc.IsProduction())
}

// New creates a new logger with specified level. Production output is
// plain JSON; everything else uses the console writer.
func New(level, service string, production bool) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLogLevel(level))

	var logger zerolog.Logger
	if production {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	return logger.
		With().
		Timestamp().
		Caller().
		Str("service", service).
		Logger()
}

// Component returns a child logger tagged with a component name
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// parseLogLevel parses log level string to zerolog.Level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
