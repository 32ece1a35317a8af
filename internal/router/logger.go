// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package router

// Logger emits records under one identity name. Identities without a routing
// entry of their own are routed through the root entry.
type Logger struct {
	r    *Router
	name string
}

// Name returns the identity name.
func (l *Logger) Name() string {
	return l.name
}

// Trace logs msg at TRACE.
func (l *Logger) Trace(msg string) error { return l.log(TraceLevel, msg, nil) }

// Debug logs msg at DEBUG.
func (l *Logger) Debug(msg string) error { return l.log(DebugLevel, msg, nil) }

// Info logs msg at INFO.
func (l *Logger) Info(msg string) error { return l.log(InfoLevel, msg, nil) }

// Warn logs msg at WARN.
func (l *Logger) Warn(msg string) error { return l.log(WarnLevel, msg, nil) }

// Error logs msg at ERROR with err attached. err may be nil.
func (l *Logger) Error(msg string, err error) error {
	return l.log(ErrorLevel, msg, err)
}

// Fatal logs msg at FATAL with err attached. It does not exit.
func (l *Logger) Fatal(msg string, err error) error {
	return l.log(FatalLevel, msg, err)
}

// Log logs msg at level with err attached.
func (l *Logger) Log(level Level, msg string, err error) error {
	return l.log(level, msg, err)
}

// Catching records that err was caught, at level. The record's message is
// "Catching" and err is attached; control flow is unaffected.
func (l *Logger) Catching(level Level, err error) error {
	return l.log(level, CatchingMessage, err)
}

// Enabled reports whether a record at level would reach at least one sink.
func (l *Logger) Enabled(level Level) bool {
	return l.r.enabled(l.name, level)
}

// log must be called directly from an exported method so the attached stack
// starts at the user's call site.
func (l *Logger) log(level Level, msg string, err error) error {
	return l.r.emit(l.name, level, msg, attach(err, 2))
}
