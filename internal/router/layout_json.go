// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package router

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// jsonLayout renders one JSON object per record, newline-terminated.
type jsonLayout struct {
	timestamp bool
}

type jsonRecord struct {
	Seq     uint64     `json:"seq"`
	Time    string     `json:"time,omitempty"`
	Level   string     `json:"level"`
	Logger  string     `json:"logger"`
	Message string     `json:"message"`
	Error   *jsonError `json:"error,omitempty"`
}

type jsonError struct {
	Message string   `json:"message"`
	Stack   []string `json:"stack,omitempty"`
	Causes  []string `json:"causes,omitempty"`
}

// Format renders r.
func (l *jsonLayout) Format(r *Record) ([]byte, error) {
	rec := jsonRecord{
		Seq:     r.Sequence,
		Level:   r.Level.String(),
		Logger:  r.Logger,
		Message: r.Message,
	}
	if l.timestamp {
		rec.Time = r.Time.Format(time.RFC3339Nano)
	}
	if r.Err != nil {
		je := &jsonError{Message: r.Err.Error(), Causes: r.Err.Causes()}
		for _, f := range r.Err.frames {
			je.Stack = append(je.Stack, fmt.Sprintf("%s(%s:%d)", f.Function, filepath.Base(f.File), f.Line))
		}
		rec.Error = je
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record %d: %w", r.Sequence, err)
	}
	return append(data, '\n'), nil
}
