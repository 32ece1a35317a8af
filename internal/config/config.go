// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package config

import (
	"os"
	"sort"
	"strings"

	"github.com/tomtom215/logsetup/internal/logging"
	"github.com/tomtom215/logsetup/internal/router"
)

// Config holds the complete logging configuration: the program's own
// diagnostics, the sinks records are written to, and the routing table.
//
// Sinks and loggers are keyed by name. Names double as configuration keys, so
// they must not contain dots; environment overrides address them in lower case.
//
// Example (configs/logsetup.yaml):
//
//	sinks:
//	  console:
//	    kind: console
//	    level: info
//	loggers:
//	  root:
//	    level: error
//	    sinks: [console]
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from multiple goroutines.
type Config struct {
	Diagnostics DiagnosticsConfig       `koanf:"diagnostics"`
	Sinks       map[string]SinkConfig   `koanf:"sinks,omitempty" validate:"required,min=1,dive,keys,logname,endkeys"`
	Loggers     map[string]LoggerConfig `koanf:"loggers,omitempty" validate:"required,min=1,dive,keys,logname,endkeys"`

	// Path is the file the configuration was read from.
	Path string `koanf:"-"`

	// Profile is the profile the file was selected for.
	Profile string `koanf:"-"`
}

// DiagnosticsConfig controls the program's own log output on stderr. It never
// affects the routed records.
//
// Environment Variables:
//   - LOGSETUP_DIAGNOSTICS__LEVEL: trace, debug, info, warn, error, fatal, panic, disabled (default: warn)
//   - LOGSETUP_DIAGNOSTICS__FORMAT: console or json (default: console)
//   - LOGSETUP_DIAGNOSTICS__CALLER: include file:line (default: false)
//   - LOGSETUP_DIAGNOSTICS__METRICS_FILE: write router counters here after shutdown (default: none)
//
// Level and Format are matched case-insensitively.
type DiagnosticsConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=console json"`
	Caller bool   `koanf:"caller"`

	// MetricsFile receives the router counters in Prometheus text format
	// once the router has shut down. Empty disables the dump.
	MetricsFile string `koanf:"metrics_file"`
}

// SinkConfig describes one destination.
//
// Environment Variables (NAME is the lower-case sink name):
//   - LOGSETUP_SINKS__NAME__LEVEL: minimum level (default: all)
//   - LOGSETUP_SINKS__NAME__TARGET: stdout, stderr or a file path
//   - LOGSETUP_SINKS__NAME__APPEND: keep existing file content (default: true)
//   - LOGSETUP_SINKS__NAME__LAYOUT__PATTERN: conversion pattern
type SinkConfig struct {
	// Kind is "console" or "file".
	Kind string `koanf:"kind" validate:"required,oneof=console file"`

	// Level is the sink's minimum level.
	// Default: all
	Level string `koanf:"level" validate:"omitempty,loglevel"`

	// Target is stdout or stderr for console sinks, a path for file sinks.
	// Default: stdout for console sinks
	Target string `koanf:"target"`

	// Append keeps existing file content; false truncates on open.
	// Default: true
	Append *bool `koanf:"append"`

	// Buffered writes file output through a buffer flushed on shutdown.
	// Default: true
	Buffered *bool `koanf:"buffered"`

	// BufferSize is the buffer size in bytes.
	// Default: 8192
	BufferSize int `koanf:"buffer_size" validate:"gte=0"`

	// ImmediateFlush flushes the buffer after every record.
	// Default: false
	ImmediateFlush bool `koanf:"immediate_flush"`

	// CreateDirs creates missing parent directories of a file target.
	// Default: false
	CreateDirs bool `koanf:"create_dirs"`

	Layout LayoutConfig `koanf:"layout"`
}

// LayoutConfig selects how records are rendered.
type LayoutConfig struct {
	// Type is "pattern" or "json".
	// Default: pattern
	Type string `koanf:"type" validate:"omitempty,oneof=pattern json"`

	// Pattern is the conversion pattern, e.g. "%-5level %logger: %m%n%ex".
	// Default: %m%n
	Pattern string `koanf:"pattern"`

	// AlwaysWriteErrors appends the full trace of an attached error when the
	// pattern has no error converter.
	// Default: true
	AlwaysWriteErrors *bool `koanf:"always_write_errors"`

	// Timestamp adds the record time to JSON output.
	// Default: false
	Timestamp bool `koanf:"timestamp"`
}

// LoggerConfig is one routing table entry.
//
// Environment Variables (NAME is the lower-case logger name):
//   - LOGSETUP_LOGGERS__NAME__LEVEL: minimum level (default: error)
//   - LOGSETUP_LOGGERS__NAME__SINKS: comma-separated sink names
type LoggerConfig struct {
	// Level is the entry's minimum level.
	// Default: error
	Level string `koanf:"level" validate:"omitempty,loglevel"`

	// Sinks lists the sinks the entry writes to.
	Sinks []string `koanf:"sinks" validate:"dive,logname"`
}

// Defaults applied to fields left unset in the file.
const (
	DefaultSinkLevel   = "all"
	DefaultLoggerLevel = "error"
)

// applyDefaults fills per-entry defaults that struct defaults cannot express
// because the entries are map values.
func (c *Config) applyDefaults() {
	c.Diagnostics.Level = strings.ToLower(strings.TrimSpace(c.Diagnostics.Level))
	c.Diagnostics.Format = strings.ToLower(strings.TrimSpace(c.Diagnostics.Format))

	for name, s := range c.Sinks {
		if s.Level == "" {
			s.Level = DefaultSinkLevel
		}
		if s.Kind == string(router.ConsoleSink) && s.Target == "" {
			s.Target = router.Stdout
		}
		if s.Append == nil {
			s.Append = boolPtr(true)
		}
		if s.Buffered == nil {
			s.Buffered = boolPtr(true)
		}
		if s.Layout.Type == "" {
			s.Layout.Type = router.PatternLayout
		}
		if s.Layout.AlwaysWriteErrors == nil {
			s.Layout.AlwaysWriteErrors = boolPtr(true)
		}
		c.Sinks[name] = s
	}
	for name, l := range c.Loggers {
		if l.Level == "" {
			l.Level = DefaultLoggerLevel
			c.Loggers[name] = l
		}
	}
}

// Router converts the configuration to the router's form. Sinks and loggers
// are ordered by name. Call it only on a validated Config.
func (c *Config) Router() router.Config {
	var rc router.Config

	for _, name := range sortedKeys(c.Sinks) {
		s := c.Sinks[name]
		level, _ := router.ParseLevel(s.Level)
		rc.Sinks = append(rc.Sinks, router.SinkConfig{
			Name:   name,
			Kind:   router.SinkKind(s.Kind),
			Level:  level,
			Target: s.Target,
			Layout: router.LayoutConfig{
				Type:              s.Layout.Type,
				Pattern:           s.Layout.Pattern,
				AlwaysWriteErrors: deref(s.Layout.AlwaysWriteErrors, true),
				Timestamp:         s.Layout.Timestamp,
			},
			Append:         deref(s.Append, true),
			Buffered:       deref(s.Buffered, true),
			BufferSize:     s.BufferSize,
			ImmediateFlush: s.ImmediateFlush,
			CreateDirs:     s.CreateDirs,
		})
	}

	for _, name := range sortedKeys(c.Loggers) {
		l := c.Loggers[name]
		level, _ := router.ParseLevel(l.Level)
		rc.Loggers = append(rc.Loggers, router.LoggerConfig{
			Name:  name,
			Level: level,
			Sinks: append([]string(nil), l.Sinks...),
		})
	}
	return rc
}

// Logging returns the diagnostics settings for logging.Init. Output goes to
// stderr so stdout carries only routed records.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:     c.Diagnostics.Level,
		Format:    c.Diagnostics.Format,
		Caller:    c.Diagnostics.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func boolPtr(b bool) *bool { return &b }

func deref(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
