// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

/*
Package config loads the routing configuration for logsetup.

The configuration names the sinks records are written to and the routing table
that maps logger names to a level and a list of sinks. It is read with Koanf v2
from a YAML file and may be overridden by environment variables.

# Configuration Sources

Layers are applied in order, later layers winning:

 1. Built-in defaults (diagnostics section)
 2. The YAML configuration file (required)
 3. LOGSETUP_ environment variables

Per-entry defaults (sink level all, logger level error, append and buffered
on, console target stdout) are filled in after the layers are merged.

# Profiles and File Discovery

Two profiles exist. The production profile reads logsetup.yaml (or
logsetup.yml); the test profile reads logsetup-test.yaml (or
logsetup-test.yml) and falls back to the production file. The profile is
chosen with LOGSETUP_PROFILE and defaults to production.

Files are searched in:
  - configs/
  - the working directory
  - /etc/logsetup/

LOGSETUP_CONFIG names a file directly and skips the search. A missing file is
an error; there is no built-in routing table.

# Environment Variables

Double underscores separate path segments, single underscores stay in the key:

	LOGSETUP_SINKS__CONSOLE__LEVEL=warn          -> sinks.console.level
	LOGSETUP_SINKS__FILE__IMMEDIATE_FLUSH=true   -> sinks.file.immediate_flush
	LOGSETUP_LOGGERS__DRIVER__SINKS=console,file -> loggers.driver.sinks
	LOGSETUP_DIAGNOSTICS__FORMAT=json            -> diagnostics.format
	LOGSETUP_DIAGNOSTICS__METRICS_FILE=run.prom  -> diagnostics.metrics_file

# Validation

Load validates field shapes with go-playground/validator (see
internal/validation) and then checks that a root logger exists, that every
referenced sink is configured, that console targets are stdout or stderr, that
file sinks have a target and that every pattern parses.

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.Logging())
	r, err := router.New(cfg.Router())
*/
package config
