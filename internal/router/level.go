// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package router

import (
	"fmt"
	"strings"
)

// Level is the severity of a record. Levels are strictly ordered:
// TRACE < DEBUG < INFO < WARN < ERROR < FATAL.
//
// AllLevel and OffLevel are thresholds only. A threshold of AllLevel admits
// every record and OffLevel admits none; records are never emitted at either.
type Level int8

// Levels in ascending order.
const (
	AllLevel Level = iota
	TraceLevel
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
	OffLevel
)

var levelNames = [...]string{
	AllLevel:   "ALL",
	TraceLevel: "TRACE",
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
	FatalLevel: "FATAL",
	OffLevel:   "OFF",
}

// String returns the upper-case level name.
func (l Level) String() string {
	if l < AllLevel || l > OffLevel {
		return fmt.Sprintf("LEVEL(%d)", int8(l))
	}
	return levelNames[l]
}

// Emittable reports whether records may be emitted at l.
func (l Level) Emittable() bool {
	return l >= TraceLevel && l <= FatalLevel
}

// Admits reports whether a threshold of l lets a record at level through.
func (l Level) Admits(level Level) bool {
	return level >= l
}

// ParseLevel converts a level name to a Level. Matching is case-insensitive
// and surrounding whitespace is ignored; "warning" is accepted for WARN.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return AllLevel, nil
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	case "off":
		return OffLevel, nil
	default:
		return AllLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}
