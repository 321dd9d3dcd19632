// Package internal contains internal implementation details.
package internal

import "github.com/tsnjitter/tsnjitter"

// NullLogger is a [tsnjitter.Logger] that does not emit logs.
type NullLogger struct{}

// Debug implements tsnjitter.Logger
func (nl *NullLogger) Debug(message string) {
	// nothing
}

// Debugf implements tsnjitter.Logger
func (nl *NullLogger) Debugf(format string, v ...any) {
	// nothing
}

// Info implements tsnjitter.Logger
func (nl *NullLogger) Info(message string) {
	// nothing
}

// Infof implements tsnjitter.Logger
func (nl *NullLogger) Infof(format string, v ...any) {
	// nothing
}

// Warn implements tsnjitter.Logger
func (nl *NullLogger) Warn(message string) {
	// nothing
}

// Warnf implements tsnjitter.Logger
func (nl *NullLogger) Warnf(format string, v ...any) {
	// nothing
}

var _ tsnjitter.Logger = &NullLogger{}
