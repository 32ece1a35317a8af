// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

// Package logging provides the zerolog-based diagnostics logger.
//
// Diagnostics are the program's own messages about itself: configuration
// loaded, sinks opened, shutdown, startup failures. They are separate from the
// records routed by internal/router and go to stderr by default so that the
// stdout transcript produced by the router is exact.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  cfg.Diagnostics.Level,
//	    Format: cfg.Diagnostics.Format,
//	})
//
//	logging.Info().Str("path", path).Msg("Configuration loaded")
//	logging.Fatal().Err(err).Msg("Failed to open sinks")
//
// # Component Loggers
//
//	routerLog := logging.With().Str("component", "router").Logger()
//	routerLog.Debug().Str("sink", name).Msg("Sink opened")
//
// # Configuration
//
// The diagnostics section of the configuration file, or
// LOGSETUP_DIAGNOSTICS__LEVEL / LOGSETUP_DIAGNOSTICS__FORMAT:
//
//	level   - trace, debug, info, warn, error, fatal, disabled (default: warn)
//	format  - console, json (default: console)
//	caller  - include caller file:line (default: false)
//
// # Testing
//
//	var buf bytes.Buffer
//	logging.SetLogger(logging.NewTestLogger(&buf))
package logging
