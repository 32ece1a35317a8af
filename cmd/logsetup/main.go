// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/tomtom215/logsetup/internal/config"
	"github.com/tomtom215/logsetup/internal/driver"
	"github.com/tomtom215/logsetup/internal/logging"
	"github.com/tomtom215/logsetup/internal/metrics"
	"github.com/tomtom215/logsetup/internal/router"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging())

	logging.Info().
		Str("path", cfg.Path).
		Str("profile", cfg.Profile).
		Int("sinks", len(cfg.Sinks)).
		Int("loggers", len(cfg.Loggers)).
		Msg("Configuration loaded")

	if err := run(os.Stdout, cfg); err != nil {
		logging.Fatal().Err(err).Msg("Log router run failed")
	}
	logging.Info().Msg("Log router shut down")
}

// run builds the router, writes the transcript to w, shuts the router down
// and dumps the counters when a metrics file is configured.
func run(w io.Writer, cfg *config.Config, opts ...router.Option) error {
	r, err := router.New(cfg.Router(), opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize log router: %w", err)
	}

	if err := driver.Run(w, r); err != nil {
		if shutdownErr := r.Shutdown(); shutdownErr != nil {
			logging.Error().Err(shutdownErr).Msg("Error shutting down log router")
		}
		return fmt.Errorf("driver failed: %w", err)
	}

	if err := r.Shutdown(); err != nil {
		return fmt.Errorf("failed to flush log sinks: %w", err)
	}

	if path := cfg.Diagnostics.MetricsFile; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			return err
		}
		logging.Debug().Str("path", path).Msg("Metrics written")
	}
	return nil
}
