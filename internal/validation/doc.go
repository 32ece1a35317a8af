// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with the custom validators the configuration
// needs and readable error messages.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Field names reported by their koanf configuration key
//   - Error translation to human-readable messages
//   - Future v11 compatibility with WithRequiredStructEnabled
//
// # Custom Validation Tags
//
//   - loglevel: a level name accepted by router.ParseLevel
//   - logname: a logger or sink name usable as a configuration key (no dots)
//
// Map keys are validated with dive/keys:
//
//	type Config struct {
//	    Sinks map[string]SinkConfig `koanf:"sinks" validate:"required,min=1,dive,keys,logname,endkeys"`
//	}
//
// # Error Handling
//
// ValidateStruct returns *Error, which aggregates every failing field:
//
//	if verr := validation.ValidateStruct(cfg); verr != nil {
//	    for _, fe := range verr.Fields() {
//	        fmt.Println(fe.Field(), fe.Tag())
//	    }
//	}
//
// Error() joins the field messages with "; ", e.g.
//
//	sinks[file].level must be a level name (all, trace, debug, info, warn, error, fatal, off)
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
