// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package router

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SinkKind selects a sink implementation.
type SinkKind string

const (
	// ConsoleSink writes to stdout or stderr.
	ConsoleSink SinkKind = "console"
	// FileSink writes to a file path.
	FileSink SinkKind = "file"
)

// Console targets.
const (
	// Stdout selects the process standard output.
	Stdout = "stdout"
	// Stderr selects the process standard error.
	Stderr = "stderr"
)

// DefaultBufferSize is the file sink buffer size when none is configured.
const DefaultBufferSize = 8 << 10 // 8 KiB

// SinkConfig describes one destination for records.
type SinkConfig struct {
	Name string
	Kind SinkKind

	// Level is the sink's minimum level.
	Level Level

	Layout LayoutConfig

	// Target is "stdout" or "stderr" for console sinks and a file path for
	// file sinks.
	Target string

	// File sink settings.
	Append         bool
	Buffered       bool
	BufferSize     int
	ImmediateFlush bool
	CreateDirs     bool
}

// output is where a sink's formatted bytes go.
type output interface {
	io.Writer
	Flush() error
	Close() error
}

// sink pairs an output with its level filter and layout.
type sink struct {
	name   string
	level  Level
	layout Layout
	out    output
	flush  bool
}

func (s *sink) admits(level Level) bool {
	return s.level.Admits(level)
}

func (s *sink) deliver(r *Record) error {
	data, err := s.layout.Format(r)
	if err != nil {
		return fmt.Errorf("sink %s: %w", s.name, err)
	}
	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("sink %s: write: %w", s.name, err)
	}
	if s.flush {
		if err := s.out.Flush(); err != nil {
			return fmt.Errorf("sink %s: flush: %w", s.name, err)
		}
	}
	return nil
}

// openSink builds the sink for cfg. stdout and stderr are the writers used
// for console targets.
func openSink(cfg SinkConfig, stdout, stderr io.Writer) (*sink, error) {
	layout, err := NewLayout(cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("sink %s: %w", cfg.Name, err)
	}

	s := &sink{name: cfg.Name, level: cfg.Level, layout: layout}
	switch SinkKind(strings.ToLower(string(cfg.Kind))) {
	case ConsoleSink:
		switch strings.ToLower(cfg.Target) {
		case "", Stdout:
			s.out = consoleOutput{w: stdout}
		case Stderr:
			s.out = consoleOutput{w: stderr}
		default:
			return nil, fmt.Errorf("%w: sink %s: console target %q", ErrInvalidSink, cfg.Name, cfg.Target)
		}
	case FileSink:
		out, err := openFile(cfg)
		if err != nil {
			return nil, fmt.Errorf("sink %s: %w", cfg.Name, err)
		}
		s.out = out
		s.flush = cfg.ImmediateFlush
	default:
		return nil, fmt.Errorf("%w: sink %s: kind %q", ErrInvalidSink, cfg.Name, cfg.Kind)
	}
	return s, nil
}

// consoleOutput writes straight through and never closes the stream.
type consoleOutput struct {
	w io.Writer
}

func (c consoleOutput) Write(p []byte) (int, error) { return c.w.Write(p) }
func (c consoleOutput) Flush() error                { return nil }
func (c consoleOutput) Close() error                { return nil }

// fileOutput is an append-only file behind an optional buffer.
type fileOutput struct {
	f   *os.File
	buf *bufio.Writer
}

func openFile(cfg SinkConfig) (*fileOutput, error) {
	if cfg.Target == "" {
		return nil, fmt.Errorf("%w: file target is empty", ErrInvalidSink)
	}
	if cfg.CreateDirs {
		if dir := filepath.Dir(cfg.Target); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create directory for %s: %w", cfg.Target, err)
			}
		}
	}

	flags := os.O_WRONLY | os.O_CREATE
	if cfg.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(cfg.Target, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Target, err)
	}

	out := &fileOutput{f: f}
	if cfg.Buffered {
		size := cfg.BufferSize
		if size <= 0 {
			size = DefaultBufferSize
		}
		out.buf = bufio.NewWriterSize(f, size)
	}
	return out, nil
}

func (o *fileOutput) Write(p []byte) (int, error) {
	if o.buf != nil {
		return o.buf.Write(p)
	}
	return o.f.Write(p)
}

func (o *fileOutput) Flush() error {
	if o.buf == nil {
		return nil
	}
	return o.buf.Flush()
}

// Close flushes the buffer, syncs the file to disk and closes it.
func (o *fileOutput) Close() error {
	flushErr := o.Flush()
	syncErr := o.f.Sync()
	closeErr := o.f.Close()
	return errors.Join(flushErr, syncErr, closeErr)
}
