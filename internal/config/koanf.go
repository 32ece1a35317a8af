// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by the loader itself. Every other LOGSETUP_
// variable overrides a configuration key.
const (
	EnvPrefix      = "LOGSETUP_"
	ConfigEnvVar   = "LOGSETUP_CONFIG"
	ProfileEnvVar  = "LOGSETUP_PROFILE"
	envPathDivider = "__"
)

// Profiles select which configuration file is loaded.
const (
	ProfileProduction = "production"
	ProfileTest       = "test"
)

// Configuration file names per profile, in order of preference.
var (
	ProductionFileNames = []string{"logsetup.yaml", "logsetup.yml"}
	TestFileNames       = []string{"logsetup-test.yaml", "logsetup-test.yml"}
)

// SearchDirs lists the directories searched for a configuration file, in
// order of priority. The first file found is used.
var SearchDirs = []string{
	"configs",
	".",
	"/etc/logsetup",
}

// ErrNotFound is returned when no configuration file exists for the profile.
var ErrNotFound = errors.New("config: no configuration file found")

// defaultConfig returns a Config struct with the defaults that apply before
// the file is read. Per-sink and per-logger defaults are filled in by
// applyDefaults once the entries are known.
func defaultConfig() *Config {
	return &Config{
		Diagnostics: DiagnosticsConfig{
			Level:  "warn",
			Format: "console",
			Caller: false,
		},
	}
}

// Load finds the configuration file for the active profile and loads it. The
// profile comes from LOGSETUP_PROFILE and defaults to production; an explicit
// LOGSETUP_CONFIG path wins over the search.
func Load() (*Config, error) {
	profile := os.Getenv(ProfileEnvVar)
	if profile == "" {
		profile = ProfileProduction
	}

	path, err := findConfigFile(profile)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Profile = profile
	return cfg, nil
}

// LoadFile loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults for the diagnostics section
//  2. Config File: The YAML file at path (required)
//  3. Environment Variables: LOGSETUP_ variables override any key
//
// A missing or malformed file and a configuration that fails validation are
// all errors.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	// Layer 3: Load environment variables (highest priority)
	// LOGSETUP_SINKS__CONSOLE__LEVEL -> sinks.console.level
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Path = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// fileNames returns the file names tried for profile, most specific first.
// The test profile falls back to the production files.
func fileNames(profile string) ([]string, error) {
	switch profile {
	case ProfileProduction:
		return ProductionFileNames, nil
	case ProfileTest:
		names := make([]string, 0, len(TestFileNames)+len(ProductionFileNames))
		names = append(names, TestFileNames...)
		return append(names, ProductionFileNames...), nil
	default:
		return nil, fmt.Errorf("config: unknown profile %q (want %s or %s)", profile, ProfileProduction, ProfileTest)
	}
}

// findConfigFile returns the configuration file for profile.
func findConfigFile(profile string) (string, error) {
	// Check environment variable first
	if envPath := os.Getenv(ConfigEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", ConfigEnvVar, envPath, err)
		}
		return envPath, nil
	}

	names, err := fileNames(profile)
	if err != nil {
		return "", err
	}

	// Every directory is searched for a name before the next name is tried, so
	// a test file anywhere beats a production file.
	for _, name := range names {
		for _, dir := range SearchDirs {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("%w for profile %s in %s", ErrNotFound, profile, strings.Join(SearchDirs, ", "))
}

// processSliceFields converts comma-separated string values to slices for
// every loggers.<name>.sinks key. Env vars come in as strings, but the config
// expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, name := range k.MapKeys("loggers") {
		path := "loggers." + name + ".sinks"
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Double underscores separate path segments; single underscores stay part of
// the key. Returning "" skips the variable.
//
// Examples:
//   - LOGSETUP_SINKS__CONSOLE__LEVEL -> sinks.console.level
//   - LOGSETUP_SINKS__FILE__IMMEDIATE_FLUSH -> sinks.file.immediate_flush
//   - LOGSETUP_LOGGERS__ROOT__SINKS -> loggers.root.sinks
//   - LOGSETUP_DIAGNOSTICS__LEVEL -> diagnostics.level
//   - LOGSETUP_CONFIG, LOGSETUP_PROFILE -> skipped
func envTransformFunc(key string) string {
	if key == ConfigEnvVar || key == ProfileEnvVar {
		return ""
	}

	key = strings.TrimPrefix(key, EnvPrefix)
	if !strings.Contains(key, envPathDivider) {
		// Every configuration key lives in a section.
		return ""
	}

	key = strings.ToLower(key)
	return strings.ReplaceAll(key, envPathDivider, ".")
}
