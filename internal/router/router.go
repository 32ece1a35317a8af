// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package router

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/logsetup/internal/logging"
	"github.com/tomtom215/logsetup/internal/metrics"
)

// RootLoggerName is the routing entry used for identities without their own.
const RootLoggerName = "root"

// CatchingMessage is the message of records logged through Logger.Catching.
const CatchingMessage = "Catching"

// LoggerConfig is one entry of the routing table.
type LoggerConfig struct {
	Name string

	// Level is the entry's minimum level, applied before any sink level.
	Level Level

	// Sinks lists the names of the sinks this entry writes to.
	Sinks []string
}

// Config is the complete routing configuration.
type Config struct {
	Sinks   []SinkConfig
	Loggers []LoggerConfig
}

// State is the router lifecycle state.
type State int

const (
	// StateConfigured is a new router that has not emitted a record.
	StateConfigured State = iota
	// StateEmitting is a router that has accepted at least one record.
	StateEmitting
	// StateShutdown is a router whose sinks are closed.
	StateShutdown
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateEmitting:
		return "emitting"
	case StateShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option customizes a Router.
type Option func(*Router)

// WithStdout sets the writer behind console sinks targeting stdout.
func WithStdout(w io.Writer) Option {
	return func(r *Router) { r.stdout = w }
}

// WithStderr sets the writer behind console sinks targeting stderr.
func WithStderr(w io.Writer) Option {
	return func(r *Router) { r.stderr = w }
}

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// WithFailureHandler sets the function called when a sink write fails. The
// default logs a fatal diagnostic, which exits the process.
func WithFailureHandler(fn func(error)) Option {
	return func(r *Router) { r.onFailure = fn }
}

// WithDiagnostics sets the logger for the router's own diagnostics.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithDiagnostics(l zerolog.Logger) Option {
	return func(r *Router) { r.log = l }
}

// route is a resolved routing entry.
type route struct {
	name  string
	level Level
	sinks []*sink
}

// Router evaluates every record against the sinks of its logger's routing
// entry and writes it to each sink that admits it.
type Router struct {
	mu     sync.Mutex
	sinks  []*sink
	routes map[string]*route
	seq    uint64
	state  State

	stdout    io.Writer
	stderr    io.Writer
	now       func() time.Time
	onFailure func(error)
	log       zerolog.Logger
}

// New opens every configured sink and builds the routing table.
func New(cfg Config, opts ...Option) (*Router, error) {
	r := &Router{
		routes: make(map[string]*route, len(cfg.Loggers)),
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
		log:    logging.WithComponent("router"),
	}
	r.onFailure = r.fatal
	for _, opt := range opts {
		opt(r)
	}

	byName := make(map[string]*sink, len(cfg.Sinks))
	for _, sc := range cfg.Sinks {
		if _, dup := byName[sc.Name]; dup {
			r.closeSinks()
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSink, sc.Name)
		}
		s, err := openSink(sc, r.stdout, r.stderr)
		if err != nil {
			r.closeSinks()
			return nil, err
		}
		byName[sc.Name] = s
		r.sinks = append(r.sinks, s)
		r.log.Debug().
			Str("sink", sc.Name).
			Str("kind", string(sc.Kind)).
			Str("target", sc.Target).
			Str("level", sc.Level.String()).
			Msg("Sink opened")
	}

	for _, lc := range cfg.Loggers {
		rt := &route{name: lc.Name, level: lc.Level}
		for _, name := range lc.Sinks {
			s, ok := byName[name]
			if !ok {
				r.closeSinks()
				return nil, fmt.Errorf("%w: logger %q references %q", ErrUnknownSink, lc.Name, name)
			}
			rt.sinks = append(rt.sinks, s)
		}
		r.routes[lc.Name] = rt
	}
	if _, ok := r.routes[RootLoggerName]; !ok {
		r.closeSinks()
		return nil, ErrNoRootLogger
	}

	r.log.Debug().Int("sinks", len(r.sinks)).Int("loggers", len(r.routes)).Msg("Router configured")
	return r, nil
}

// Logger returns the logger for the identity name.
func (r *Router) Logger(name string) *Logger {
	return &Logger{r: r, name: name}
}

// Root returns the root logger.
func (r *Router) Root() *Logger {
	return r.Logger(RootLoggerName)
}

// State returns the lifecycle state.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Emit routes a record for the identity name. A plain err gets the stack of
// Emit's caller attached. Write failures go to the failure handler and are
// returned.
func (r *Router) Emit(name string, level Level, msg string, err error) error {
	return r.emit(name, level, msg, attach(err, 1))
}

func (r *Router) emit(name string, level Level, msg string, se *StackError) error {
	if !level.Emittable() {
		r.log.Warn().Str("logger", name).Str("level", level.String()).Msg("Record dropped: not an emittable level")
		return fmt.Errorf("%w: cannot emit at %s", ErrInvalidLevel, level)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateShutdown {
		r.log.Debug().Str("logger", name).Msg("Record dropped after shutdown")
		return ErrShutdown
	}
	r.state = StateEmitting

	r.seq++
	rec := &Record{
		Sequence: r.seq,
		Time:     r.now(),
		Logger:   name,
		Level:    level,
		Message:  msg,
		Err:      se,
	}

	rt := r.resolve(name)
	metrics.RecordEmit(rt.name, level.String())

	if !rt.level.Admits(level) {
		for _, s := range rt.sinks {
			metrics.RecordFiltered(s.name, metrics.StageLogger)
		}
		return nil
	}

	for _, s := range rt.sinks {
		if !s.admits(level) {
			metrics.RecordFiltered(s.name, metrics.StageSink)
			continue
		}
		err := s.deliver(rec)
		metrics.RecordDelivery(s.name, err)
		if err != nil {
			r.onFailure(err)
			return err
		}
	}
	return nil
}

// enabled reports whether a record at level from name would reach any sink.
func (r *Router) enabled(name string, level Level) bool {
	if !level.Emittable() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateShutdown {
		return false
	}
	rt := r.resolve(name)
	if !rt.level.Admits(level) {
		return false
	}
	for _, s := range rt.sinks {
		if s.admits(level) {
			return true
		}
	}
	return false
}

// resolve returns the entry for name, or the root entry (must hold mu).
func (r *Router) resolve(name string) *route {
	if rt, ok := r.routes[name]; ok {
		return rt
	}
	return r.routes[RootLoggerName]
}

// Flush writes buffered sink data through to its destination.
func (r *Router) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateShutdown {
		return ErrShutdown
	}

	var errs []error
	for _, s := range r.sinks {
		metrics.RecordFlush(s.name)
		if err := s.out.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("sink %s: flush: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

// Shutdown flushes and closes every sink. When it returns, every record a
// file sink admitted is on disk. Calling Shutdown again is a no-op.
func (r *Router) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateShutdown {
		return nil
	}
	r.state = StateShutdown

	err := r.closeSinks()
	if err != nil {
		r.log.Error().Err(err).Msg("Router shutdown incomplete")
		return err
	}
	r.log.Debug().Uint64("records", r.seq).Msg("Router shut down")
	return nil
}

// closeSinks closes every opened sink and joins their errors.
func (r *Router) closeSinks() error {
	var errs []error
	for _, s := range r.sinks {
		metrics.RecordFlush(s.name)
		if err := s.out.Close(); err != nil {
			errs = append(errs, fmt.Errorf("sink %s: close: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Router) fatal(err error) {
	r.log.Fatal().Err(err).Msg("Log sink write failed")
}
