// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package router

import (
	"errors"
	"runtime"
	"strings"
)

// maxStackDepth bounds the number of frames captured per StackError.
const maxStackDepth = 64

// Frame is one entry of a captured call stack.
type Frame struct {
	Function string
	File     string
	Line     int
}

// StackError is an error value carrying a message, an optional cause and the
// call stack at the point it was created. It is passed into log calls as data
// and is never returned or rethrown by the router.
type StackError struct {
	msg    string
	cause  error
	frames []Frame
}

// NewStackError returns a StackError with the given message and the stack of
// its caller.
func NewStackError(msg string) *StackError {
	return &StackError{msg: msg, frames: callers(1)}
}

// WithStack wraps err with the stack of its caller. A nil err returns nil and
// an err that already is a *StackError is returned unchanged.
func WithStack(err error) *StackError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*StackError); ok {
		return se
	}
	return &StackError{msg: err.Error(), cause: err, frames: callers(1)}
}

// attach converts err for a record. skip counts frames above attach's caller
// and places the captured stack at the log call site.
func attach(err error, skip int) *StackError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*StackError); ok {
		return se
	}
	return &StackError{msg: err.Error(), cause: err, frames: callers(skip + 1)}
}

// Error returns the message.
func (e *StackError) Error() string {
	return e.msg
}

// Unwrap returns the wrapped error, if any.
func (e *StackError) Unwrap() error {
	return e.cause
}

// Frames returns the captured call stack, innermost first.
func (e *StackError) Frames() []Frame {
	out := make([]Frame, len(e.frames))
	copy(out, e.frames)
	return out
}

// Causes returns the messages of the errors wrapped below the one this
// StackError was built from, outermost first.
func (e *StackError) Causes() []string {
	if e.cause == nil {
		return nil
	}
	var causes []string
	for c := errors.Unwrap(e.cause); c != nil; c = errors.Unwrap(c) {
		causes = append(causes, c.Error())
	}
	return causes
}

// callers captures the stack of the function that invoked it, skipping skip
// frames above that function. Runtime frames are dropped.
func callers(skip int) []Frame {
	pcs := make([]uintptr, maxStackDepth)
	// +2 for runtime.Callers and callers itself.
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]Frame, 0, n)
	for {
		f, more := frames.Next()
		if f.Function != "" && !strings.HasPrefix(f.Function, "runtime.") {
			out = append(out, Frame{Function: f.Function, File: f.File, Line: f.Line})
		}
		if !more {
			break
		}
	}
	return out
}
