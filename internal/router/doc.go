// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

/*
Package router routes leveled log records to console and file sinks.

A Router is built from an explicit Config: a list of sinks and a routing table
that maps logger identity names to a level and the sinks they write to. An
identity with no entry of its own uses the "root" entry. There is no name
hierarchy and no additivity; each entry lists every sink it writes to.

# Filtering

A record reaches a sink when both thresholds admit it:

	record.Level >= entry.Level && record.Level >= sink.Level

Each sink is evaluated independently, so one entry can send DEBUG to a file
and INFO and above to the console.

# Errors

Errors passed to log calls are data. A plain error gets the stack of the log
call site attached; a *StackError keeps the stack captured where it was built:

	err := router.NewStackError("emu")
	log.Error("ERROR", err)

The pattern layout renders an attached error with %ex (full trace) or
%ex{short.message} (message only).

# Lifecycle

New opens every sink. Records may be emitted from any goroutine. Shutdown
flushes and closes every sink exactly once; after it returns, records written
to file sinks are on disk and further emits return ErrShutdown.

	r, err := router.New(cfg)
	if err != nil {
		return err
	}
	defer r.Shutdown()
	r.Logger("driver").Info("ibis")
*/
package router
