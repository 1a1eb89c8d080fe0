package common

import (
	"io"
	"strings"

	"github.com/pion/logging"
)

// LoggerFactory produces the scoped loggers used across the module.
// Front-ends replace it before constructing any component.
var LoggerFactory logging.LoggerFactory = logging.NewDefaultLoggerFactory()

// Logger returns a leveled logger for scope.
func Logger(scope string) logging.LeveledLogger {
	return LoggerFactory.NewLogger(scope)
}

// NewLoggerFactory returns a factory writing every scope to w at level.
func NewLoggerFactory(w io.Writer, level logging.LogLevel) logging.LoggerFactory {
	f := logging.NewDefaultLoggerFactory()
	f.Writer = w
	f.DefaultLogLevel = level
	return f
}

// ParseLogLevel maps a flag value such as "debug" to a pion log level.
// Unknown values fall back to warn.
func ParseLogLevel(s string) logging.LogLevel {
	switch strings.ToLower(s) {
	case "disabled", "off", "none":
		return logging.LogLevelDisabled
	case "error":
		return logging.LogLevelError
	case "info":
		return logging.LogLevelInfo
	case "debug":
		return logging.LogLevelDebug
	case "trace":
		return logging.LogLevelTrace
	}
	return logging.LogLevelWarn
}
