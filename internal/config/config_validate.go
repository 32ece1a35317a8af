// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/logsetup/internal/router"
	"github.com/tomtom215/logsetup/internal/validation"
)

// Validate checks the shape of every field and the relations between sinks
// and loggers.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateSinks(); err != nil {
		return err
	}

	return c.validateLoggers()
}

// validateSinks checks targets and layouts, in name order so the first
// reported error is stable.
func (c *Config) validateSinks() error {
	for _, name := range sortedKeys(c.Sinks) {
		s := c.Sinks[name]

		switch router.SinkKind(s.Kind) {
		case router.ConsoleSink:
			target := strings.ToLower(s.Target)
			if target != "" && target != router.Stdout && target != router.Stderr {
				return fmt.Errorf("sinks.%s.target must be stdout or stderr for console sinks, got %q", name, s.Target)
			}
		case router.FileSink:
			if strings.TrimSpace(s.Target) == "" {
				return fmt.Errorf("sinks.%s.target is required for file sinks", name)
			}
		}

		layout := router.LayoutConfig{Type: s.Layout.Type, Pattern: s.Layout.Pattern}
		if _, err := router.NewLayout(layout); err != nil {
			return fmt.Errorf("sinks.%s.layout: %w", name, err)
		}
	}
	return nil
}

// validateLoggers checks that the root entry exists and every referenced sink
// is configured.
func (c *Config) validateLoggers() error {
	if _, ok := c.Loggers[router.RootLoggerName]; !ok {
		return fmt.Errorf("loggers.%s: %w", router.RootLoggerName, router.ErrNoRootLogger)
	}

	for _, name := range sortedKeys(c.Loggers) {
		for _, sink := range c.Loggers[name].Sinks {
			if _, ok := c.Sinks[sink]; !ok {
				return fmt.Errorf("loggers.%s.sinks: %w %q", name, router.ErrUnknownSink, sink)
			}
		}
	}
	return nil
}
