// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// ErrorKey is the attribute key whose error value becomes the record's
// attached error.
const ErrorKey = "error"

// SlogHandler implements slog.Handler on top of a router logger so that
// slog-based libraries write through the same sinks.
//
// Usage:
//
//	slogger := slog.New(router.NewSlogHandler(r.Logger("http")))
//	slogger.Info("listening", "port", 8080) // message "listening port=8080"
type SlogHandler struct {
	logger *Logger
	attrs  []slog.Attr
	groups []string
}

// NewSlogHandler creates a handler that emits through logger.
func NewSlogHandler(logger *Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// Enabled reports whether the handler handles records at the given level.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.Enabled(slogToLevel(level))
}

// Handle handles the Record.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	var (
		b   strings.Builder
		err error
	)
	b.WriteString(record.Message)

	add := func(attr slog.Attr, groups []string) {
		if e, ok := attr.Value.Any().(error); ok && attr.Key == ErrorKey && len(groups) == 0 {
			err = e
			return
		}
		writeAttr(&b, attr, groups)
	}
	// Pre-configured attributes already carry their group prefix.
	for _, attr := range h.attrs {
		add(attr, nil)
	}
	record.Attrs(func(attr slog.Attr) bool {
		add(attr, h.groups)
		return true
	})

	return h.logger.r.emit(h.logger.name, slogToLevel(record.Level), b.String(), attach(err, 0))
}

// WithAttrs returns a new Handler with the given attributes.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	for _, a := range attrs {
		newAttrs = append(newAttrs, qualify(a, h.groups))
	}

	return &SlogHandler{
		logger: h.logger,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name

	return &SlogHandler{
		logger: h.logger,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

// qualify prefixes a pre-configured attribute's key with the groups open at
// the time it was added.
func qualify(attr slog.Attr, groups []string) slog.Attr {
	if len(groups) == 0 {
		return attr
	}
	return slog.Attr{Key: strings.Join(groups, ".") + "." + attr.Key, Value: attr.Value}
}

// writeAttr appends " key=value", flattening groups into dotted keys.
func writeAttr(b *strings.Builder, attr slog.Attr, groups []string) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		sub := groups
		if attr.Key != "" {
			sub = append(append([]string(nil), groups...), attr.Key)
		}
		for _, ga := range attr.Value.Group() {
			writeAttr(b, ga, sub)
		}
		return
	}

	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	fmt.Fprintf(b, " %s=%s", key, attr.Value.String())
}

// slogToLevel converts slog.Level to Level.
func slogToLevel(level slog.Level) Level {
	switch {
	case level < slog.LevelDebug:
		return TraceLevel
	case level < slog.LevelInfo:
		return DebugLevel
	case level < slog.LevelWarn:
		return InfoLevel
	case level < slog.LevelError:
		return WarnLevel
	case level < slog.LevelError+4:
		return ErrorLevel
	default:
		return FatalLevel
	}
}
