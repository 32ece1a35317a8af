// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

// Package driver emits a fixed set of log calls against the root logger and a
// named logger so the routing configuration can be checked end to end.
package driver

import (
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/logsetup/internal/router"
)

// ClassLogger is the name of the second logger identity.
const ClassLogger = "driver"

// Transcript headers written around each block.
const (
	RootHeader  = "ROOT LOGGER:"
	ClassHeader = "CLASS LOGGER:"
)

// OutputMessages issues one call per level against log, in order. The ERROR
// record's message is the level name.
func OutputMessages(log *router.Logger) error {
	return errors.Join(
		log.Trace("turkey"),
		log.Debug("duck"),
		log.Info("ibis"),
		log.Warn("wren"),
		log.Error(router.ErrorLevel.String(), router.NewStackError("emu")),
		log.Catching(router.FatalLevel, router.WithStack(errors.New("falcon"))),
	)
}

// Run writes the root block and then the class block to w. Headers go to w;
// records go wherever r routes them.
func Run(w io.Writer, r *router.Router) error {
	if _, err := fmt.Fprintln(w, RootHeader); err != nil {
		return err
	}
	if err := OutputMessages(r.Root()); err != nil {
		return fmt.Errorf("root logger: %w", err)
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", ClassHeader); err != nil {
		return err
	}
	if err := OutputMessages(r.Logger(ClassLogger)); err != nil {
		return fmt.Errorf("%s logger: %w", ClassLogger, err)
	}
	return nil
}
