// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package router

import "errors"

var (
	// ErrShutdown is returned when a record is emitted after Shutdown.
	ErrShutdown = errors.New("router: shut down")

	// ErrNoRootLogger is returned by New when the routing table has no root entry.
	ErrNoRootLogger = errors.New("router: no root logger configured")

	// ErrUnknownSink is returned by New when a logger references a sink that
	// is not configured.
	ErrUnknownSink = errors.New("router: unknown sink")

	// ErrDuplicateSink is returned by New when two sinks share a name.
	ErrDuplicateSink = errors.New("router: duplicate sink")

	// ErrInvalidLevel is returned for unparseable level names and for records
	// emitted at a threshold-only level.
	ErrInvalidLevel = errors.New("router: invalid level")

	// ErrInvalidPattern is returned when a pattern layout does not parse.
	ErrInvalidPattern = errors.New("router: invalid pattern")

	// ErrInvalidSink is returned when a sink's kind or target is unusable.
	ErrInvalidSink = errors.New("router: invalid sink")
)
