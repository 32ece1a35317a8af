// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package router

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Layout types understood by NewLayout.
const (
	PatternLayout = "pattern"
	JSONLayout    = "json"
)

const (
	// DefaultPattern is used when a pattern layout is configured without one.
	DefaultPattern = "%m%n"

	// DefaultDateLayout is the Go time layout used by %d without an option.
	DefaultDateLayout = "2006-01-02 15:04:05.000"

	// MaxModifierWidth bounds the min and max widths of a format modifier.
	MaxModifierWidth = 1024

	iso8601Layout = "2006-01-02T15:04:05.000"
)

// Layout turns a record into the bytes a sink writes.
type Layout interface {
	Format(r *Record) ([]byte, error)
}

// LayoutConfig selects and configures a layout.
type LayoutConfig struct {
	// Type is "pattern" (default) or "json".
	Type string

	// Pattern is the conversion pattern for pattern layouts.
	Pattern string

	// AlwaysWriteErrors appends the full trace of an attached error when the
	// pattern has no error converter of its own.
	AlwaysWriteErrors bool

	// Timestamp adds the record time to JSON output.
	Timestamp bool
}

// NewLayout builds the layout described by cfg.
func NewLayout(cfg LayoutConfig) (Layout, error) {
	switch strings.ToLower(cfg.Type) {
	case "", PatternLayout:
		return NewPatternLayout(cfg.Pattern, cfg.AlwaysWriteErrors)
	case JSONLayout:
		return &jsonLayout{timestamp: cfg.Timestamp}, nil
	default:
		return nil, fmt.Errorf("%w: unknown layout type %q", ErrInvalidSink, cfg.Type)
	}
}

type segmentKind int

const (
	segLiteral segmentKind = iota
	segMessage
	segLevel
	segLogger
	segSequence
	segDate
	segNewline
	segError
	segNotEmpty
)

var converterNames = map[string]segmentKind{
	"m":              segMessage,
	"msg":            segMessage,
	"message":        segMessage,
	"p":              segLevel,
	"level":          segLevel,
	"c":              segLogger,
	"logger":         segLogger,
	"sn":             segSequence,
	"sequenceNumber": segSequence,
	"d":              segDate,
	"date":           segDate,
	"n":              segNewline,
	"ex":             segError,
	"exception":      segError,
	"throwable":      segError,
	"notEmpty":       segNotEmpty,
}

type errorMode int

const (
	errorFull errorMode = iota
	errorShortMessage
	errorNone
)

// formatModifier is the optional [-][min][.max] between % and the converter.
type formatModifier struct {
	left bool
	min  int
	max  int
}

func (m formatModifier) apply(s string) string {
	if m.max > 0 && utf8.RuneCountInString(s) > m.max {
		// Truncation keeps the rightmost characters.
		runes := []rune(s)
		s = string(runes[len(runes)-m.max:])
	}
	if pad := m.min - utf8.RuneCountInString(s); pad > 0 {
		if m.left {
			return s + strings.Repeat(" ", pad)
		}
		return strings.Repeat(" ", pad) + s
	}
	return s
}

type segment struct {
	kind     segmentKind
	text     string
	mod      formatModifier
	lower    bool
	date     string
	errMode  errorMode
	errLimit int
	children []segment
}

// patternLayout renders records through a log4j-style conversion pattern.
type patternLayout struct {
	segments          []segment
	hasError          bool
	alwaysWriteErrors bool
}

// NewPatternLayout parses pattern. An empty pattern uses DefaultPattern.
//
// Supported converters: %m %msg %message, %p %level, %c %logger,
// %sn %sequenceNumber, %d{layout} %date{layout}, %n,
// %ex %exception %throwable with options {short.message}, {none} or {N},
// %notEmpty{sub-pattern} and %% for a literal percent sign. Converters take
// an optional [-][min][.max] format modifier, e.g. %-5level.
func NewPatternLayout(pattern string, alwaysWriteErrors bool) (Layout, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	segs, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}
	return &patternLayout{
		segments:          segs,
		hasError:          containsError(segs),
		alwaysWriteErrors: alwaysWriteErrors,
	}, nil
}

// Format renders r.
func (l *patternLayout) Format(r *Record) ([]byte, error) {
	var b bytes.Buffer
	renderSegments(&b, l.segments, r)
	if l.alwaysWriteErrors && !l.hasError && r.Err != nil {
		writeTrace(&b, r.Err, -1)
	}
	return b.Bytes(), nil
}

func parsePattern(p string) ([]segment, error) {
	var (
		segs []segment
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{kind: segLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(p); {
		if p[i] != '%' {
			lit.WriteByte(p[i])
			i++
			continue
		}
		i++
		if i >= len(p) {
			return nil, fmt.Errorf("%w: dangling %% at end of %q", ErrInvalidPattern, p)
		}
		if p[i] == '%' {
			lit.WriteByte('%')
			i++
			continue
		}

		var mod formatModifier
		if p[i] == '-' {
			mod.left = true
			i++
		}
		start := i
		for i < len(p) && isDigit(p[i]) {
			i++
		}
		if i > start {
			n, err := parseWidth(p[start:i], p)
			if err != nil {
				return nil, err
			}
			mod.min = n
		}
		if i < len(p) && p[i] == '.' {
			i++
			start = i
			for i < len(p) && isDigit(p[i]) {
				i++
			}
			if i == start {
				return nil, fmt.Errorf("%w: missing truncation width in %q", ErrInvalidPattern, p)
			}
			n, err := parseWidth(p[start:i], p)
			if err != nil {
				return nil, err
			}
			mod.max = n
		}

		start = i
		for i < len(p) && isLetter(p[i]) {
			i++
		}
		name, kind, ok := matchConverter(p[start:i])
		if !ok {
			return nil, fmt.Errorf("%w: unknown converter %%%s in %q", ErrInvalidPattern, p[start:i], p)
		}
		// Letters past the longest known name are literal text.
		i = start + len(name)

		option, hasOption := "", false
		if i < len(p) && p[i] == '{' {
			end, err := matchBrace(p, i)
			if err != nil {
				return nil, err
			}
			option, hasOption = p[i+1:end], true
			i = end + 1
		}

		seg, err := newSegment(kind, mod, option, hasOption)
		if err != nil {
			return nil, err
		}
		flush()
		segs = append(segs, seg)
	}
	flush()
	return segs, nil
}

// parseWidth parses a format modifier width of at most MaxModifierWidth.
func parseWidth(digits, pattern string) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil || n > MaxModifierWidth {
		return 0, fmt.Errorf("%w: width %s exceeds %d in %q", ErrInvalidPattern, digits, MaxModifierWidth, pattern)
	}
	return n, nil
}

// matchConverter finds the longest converter name that prefixes word.
func matchConverter(word string) (string, segmentKind, bool) {
	for n := len(word); n > 0; n-- {
		if kind, ok := converterNames[word[:n]]; ok {
			return word[:n], kind, true
		}
	}
	return "", segLiteral, false
}

func matchBrace(p string, open int) (int, error) {
	depth := 0
	for i := open; i < len(p); i++ {
		switch p[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unterminated option in %q", ErrInvalidPattern, p)
}

func newSegment(kind segmentKind, mod formatModifier, option string, hasOption bool) (segment, error) {
	seg := segment{kind: kind, mod: mod, errLimit: -1}
	switch kind {
	case segLevel:
		seg.lower = strings.EqualFold(strings.ReplaceAll(option, " ", ""), "lowercase=true")
	case segDate:
		switch option {
		case "":
			seg.date = DefaultDateLayout
		case "ISO8601":
			seg.date = iso8601Layout
		default:
			seg.date = option
		}
	case segError:
		switch option {
		case "", "full":
			seg.errMode = errorFull
		case "short", "short.message":
			seg.errMode = errorShortMessage
		case "none":
			seg.errMode = errorNone
		default:
			n, err := strconv.Atoi(option)
			if err != nil || n < 0 {
				return seg, fmt.Errorf("%w: bad error option %q", ErrInvalidPattern, option)
			}
			seg.errLimit = n
		}
	case segNotEmpty:
		if !hasOption {
			return seg, fmt.Errorf("%w: %%notEmpty needs a sub-pattern", ErrInvalidPattern)
		}
		children, err := parsePattern(option)
		if err != nil {
			return seg, err
		}
		seg.children = children
	}
	return seg, nil
}

func containsError(segs []segment) bool {
	for i := range segs {
		if segs[i].kind == segError || containsError(segs[i].children) {
			return true
		}
	}
	return false
}

// renderSegments writes segs and reports how many converters produced output
// and how many converters there were.
func renderSegments(b *bytes.Buffer, segs []segment, r *Record) (nonEmpty, total int) {
	for i := range segs {
		variable, wrote := segs[i].render(b, r)
		if variable {
			total++
			if wrote {
				nonEmpty++
			}
		}
	}
	return nonEmpty, total
}

func (s *segment) render(b *bytes.Buffer, r *Record) (variable, wrote bool) {
	switch s.kind {
	case segLiteral:
		b.WriteString(s.text)
		return false, false
	case segNewline:
		b.WriteByte('\n')
		return false, false
	case segNotEmpty:
		var inner bytes.Buffer
		nonEmpty, total := renderSegments(&inner, s.children, r)
		if total > 0 && nonEmpty == total {
			b.Write(inner.Bytes())
			return true, true
		}
		return true, false
	case segError:
		if r.Err == nil || s.errMode == errorNone {
			return true, false
		}
		if s.errMode == errorFull {
			writeTrace(b, r.Err, s.errLimit)
			return true, true
		}
	}

	v := s.value(r)
	b.WriteString(s.mod.apply(v))
	return true, v != ""
}

func (s *segment) value(r *Record) string {
	switch s.kind {
	case segMessage:
		return r.Message
	case segLevel:
		if s.lower {
			return strings.ToLower(r.Level.String())
		}
		return r.Level.String()
	case segLogger:
		return r.Logger
	case segSequence:
		return strconv.FormatUint(r.Sequence, 10)
	case segDate:
		return r.Time.Format(s.date)
	case segError:
		return r.Err.Error()
	default:
		return ""
	}
}

// writeTrace renders e as its message, one "\tat" line per frame (at most
// limit frames when limit >= 0) and one "Caused by:" line per wrapped cause.
func writeTrace(b *bytes.Buffer, e *StackError, limit int) {
	b.WriteString(e.Error())
	b.WriteByte('\n')
	for i, f := range e.frames {
		if limit >= 0 && i >= limit {
			break
		}
		fmt.Fprintf(b, "\tat %s(%s:%d)\n", f.Function, filepath.Base(f.File), f.Line)
	}
	for _, c := range e.Causes() {
		b.WriteString("Caused by: ")
		b.WriteString(c)
		b.WriteByte('\n')
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
