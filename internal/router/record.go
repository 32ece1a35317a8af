// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package router

import "time"

// Record is a single log event. Records are created by the router and are not
// modified after creation; layouts receive them by pointer for efficiency only.
type Record struct {
	// Sequence is assigned per emitted call, starting at 1, before filtering.
	Sequence uint64

	// Time is when the router created the record.
	Time time.Time

	// Logger is the identity name the record was emitted under.
	Logger string

	Level   Level
	Message string

	// Err is the attached error, if any.
	Err *StackError
}
