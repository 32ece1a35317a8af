// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

/*
Package main is the entry point for logsetup.

logsetup loads a routing configuration, builds the log router, and runs the
driver: the same six log calls against the root logger and the "driver"
logger. The console transcript on stdout shows which records each sink
admitted; the file sink (debug.log in the shipped configuration) holds the
DEBUG and above records of the driver logger with full error traces.

# Startup Order

 1. Configuration: Koanf v2 (defaults, YAML file, LOGSETUP_ environment)
 2. Diagnostics: zerolog on stderr, configured by the diagnostics section
 3. Router: every sink opened, routing table built
 4. Driver: root block, then class block
 5. Shutdown: sinks flushed, synced and closed
 6. Metrics: router counters written to diagnostics.metrics_file, when set

Any failure in steps 1 to 3 exits with status 1 and a diagnostic on stderr.

# Example Usage

	./logsetup
	ROOT LOGGER:
	ERROR emu
	Catching falcon

	CLASS LOGGER:
	ibis
	wren
	ERROR emu
	Catching falcon

Overrides:

	LOGSETUP_PROFILE=test ./logsetup                    # prefer logsetup-test.yaml
	LOGSETUP_CONFIG=/tmp/routing.yaml ./logsetup        # explicit file
	LOGSETUP_SINKS__CONSOLE__LEVEL=error ./logsetup     # hide ibis and wren
	LOGSETUP_DIAGNOSTICS__LEVEL=debug ./logsetup        # show router diagnostics
	LOGSETUP_DIAGNOSTICS__METRICS_FILE=run.prom ./logsetup  # dump counters
*/
package main
