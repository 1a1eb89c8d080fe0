//go:build js
// +build js

package common

import (
	"fmt"

	"github.com/gopherjs/gopherjs/js"
	"github.com/pion/logging"
)

// EnableDebug turns on debug and trace output in the browser console.
var EnableDebug = false

// ConsoleLoggerFactory writes leveled logs to the browser console.
type ConsoleLoggerFactory struct{}

// NewLogger implements logging.LoggerFactory.
func (ConsoleLoggerFactory) NewLogger(scope string) logging.LeveledLogger {
	return &consoleLogger{prefix: "[" + scope + "]"}
}

type consoleLogger struct {
	prefix string
}

func (l *consoleLogger) log(method, msg string) {
	js.Global.Get("console").Call(method, l.prefix, msg)
}

func (l *consoleLogger) Trace(msg string) {
	if EnableDebug {
		l.log("debug", msg)
	}
}

func (l *consoleLogger) Tracef(format string, args ...interface{}) {
	l.Trace(fmt.Sprintf(format, args...))
}

func (l *consoleLogger) Debug(msg string) {
	if EnableDebug {
		l.log("debug", msg)
	}
}

func (l *consoleLogger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l *consoleLogger) Info(msg string) { l.log("info", msg) }

func (l *consoleLogger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *consoleLogger) Warn(msg string) { l.log("warn", msg) }

func (l *consoleLogger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

func (l *consoleLogger) Error(msg string) { l.log("error", msg) }

func (l *consoleLogger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
