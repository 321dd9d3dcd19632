package tsnjitter

//
// Logging
//

import apexlog "github.com/apex/log"

// Logger is the logger used throughout this package.
type Logger interface {
	// Debugf formats and emits a debug message.
	Debugf(format string, v ...any)

	// Debug emits a debug message.
	Debug(message string)

	// Infof formats and emits an informational message.
	Infof(format string, v ...any)

	// Info emits an informational message.
	Info(message string)

	// Warnf formats and emits a warning message.
	Warnf(format string, v ...any)

	// Warn emits a warning message.
	Warn(message string)
}

// StdLogger is a [Logger] backed by [github.com/apex/log].
type StdLogger struct{}

var _ Logger = &StdLogger{}

// Debug implements Logger.
func (*StdLogger) Debug(message string) {
	apexlog.Debug(message)
}

// Debugf implements Logger.
func (*StdLogger) Debugf(format string, v ...any) {
	apexlog.Debugf(format, v...)
}

// Info implements Logger.
func (*StdLogger) Info(message string) {
	apexlog.Info(message)
}

// Infof implements Logger.
func (*StdLogger) Infof(format string, v ...any) {
	apexlog.Infof(format, v...)
}

// Warn implements Logger.
func (*StdLogger) Warn(message string) {
	apexlog.Warn(message)
}

// Warnf implements Logger.
func (*StdLogger) Warnf(format string, v ...any) {
	apexlog.Warnf(format, v...)
}
