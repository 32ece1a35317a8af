// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package router

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/logsetup/internal/logging"
	"github.com/tomtom215/logsetup/internal/metrics"
)

// safeBuffer is a bytes.Buffer that can be read while a router writes to it.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("stream closed") }

// routingConfig is a console sink at INFO and a file sink at DEBUG, with root
// at ERROR writing to the console and "driver" admitting everything on both.
func routingConfig(path string) Config {
	return Config{
		Sinks: []SinkConfig{
			{
				Name:   "console",
				Kind:   ConsoleSink,
				Level:  InfoLevel,
				Layout: LayoutConfig{Pattern: "%m%notEmpty{ %ex{short.message}}%n"},
			},
			{
				Name:     "file",
				Kind:     FileSink,
				Level:    DebugLevel,
				Target:   path,
				Buffered: true,
				Layout:   LayoutConfig{Pattern: "%-5level %logger: %m%n%ex"},
			},
		},
		Loggers: []LoggerConfig{
			{Name: RootLoggerName, Level: ErrorLevel, Sinks: []string{"console"}},
			{Name: "driver", Level: AllLevel, Sinks: []string{"console", "file"}},
		},
	}
}

func newTestRouter(t *testing.T, cfg Config, stdout *safeBuffer) *Router {
	t.Helper()
	r, err := New(cfg,
		WithStdout(stdout),
		WithStderr(stdout),
		WithFailureHandler(func(err error) { t.Errorf("unexpected sink failure: %v", err) }),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = r.Shutdown() })
	return r
}

func TestNewInvalidConfig(t *testing.T) {
	t.Parallel()

	console := SinkConfig{Name: "console", Kind: ConsoleSink}
	root := LoggerConfig{Name: RootLoggerName, Level: ErrorLevel, Sinks: []string{"console"}}

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "no root entry",
			cfg:     Config{Sinks: []SinkConfig{console}, Loggers: []LoggerConfig{{Name: "driver", Sinks: []string{"console"}}}},
			wantErr: ErrNoRootLogger,
		},
		{
			name:    "unknown sink",
			cfg:     Config{Sinks: []SinkConfig{console}, Loggers: []LoggerConfig{{Name: RootLoggerName, Sinks: []string{"file"}}}},
			wantErr: ErrUnknownSink,
		},
		{
			name:    "duplicate sink",
			cfg:     Config{Sinks: []SinkConfig{console, console}, Loggers: []LoggerConfig{root}},
			wantErr: ErrDuplicateSink,
		},
		{
			name: "bad pattern",
			cfg: Config{
				Sinks:   []SinkConfig{{Name: "console", Kind: ConsoleSink, Layout: LayoutConfig{Pattern: "%q"}}},
				Loggers: []LoggerConfig{root},
			},
			wantErr: ErrInvalidPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := New(tt.cfg, WithStdout(&safeBuffer{}))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if r != nil {
				t.Error("New() should return a nil router on error")
			}
		})
	}
}

func TestRouterTwoStageFiltering(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "debug.log")
	var stdout safeBuffer
	r := newTestRouter(t, routingConfig(path), &stdout)

	for _, l := range []*Logger{r.Root(), r.Logger("driver")} {
		_ = l.Trace("turkey")
		_ = l.Debug("duck")
		_ = l.Info("ibis")
		_ = l.Warn("wren")
		_ = l.Error("ERROR", &StackError{msg: "emu"})
	}
	if err := r.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}

	if got, want := stdout.String(), "ERROR emu\nibis\nwren\nERROR emu\n"; got != want {
		t.Errorf("console = %q, want %q", got, want)
	}

	file := readFile(t, path)
	wantPrefix := "DEBUG driver: duck\nINFO  driver: ibis\nWARN  driver: wren\nERROR driver: ERROR\nemu\n"
	if !strings.HasPrefix(file, wantPrefix) {
		t.Errorf("file = %q, want prefix %q", file, wantPrefix)
	}
	if strings.Contains(file, "turkey") {
		t.Error("TRACE record must not reach the DEBUG file sink")
	}
}

func TestRouterUnknownIdentityUsesRoot(t *testing.T) {
	t.Parallel()

	var stdout safeBuffer
	r := newTestRouter(t, routingConfig(filepath.Join(t.TempDir(), "debug.log")), &stdout)

	log := r.Logger("somewhere.else")
	_ = log.Warn("dropped")
	_ = log.Fatal("kept", nil)

	if got := stdout.String(); got != "kept\n" {
		t.Errorf("console = %q, want %q", got, "kept\n")
	}
	if log.Name() != "somewhere.else" {
		t.Errorf("Name() = %q", log.Name())
	}
}

func TestRouterSequenceAssignedBeforeFiltering(t *testing.T) {
	t.Parallel()

	var stdout safeBuffer
	r := newTestRouter(t, Config{
		Sinks: []SinkConfig{{Name: "console", Kind: ConsoleSink, Layout: LayoutConfig{Pattern: "%sn:%m%n"}}},
		Loggers: []LoggerConfig{
			{Name: RootLoggerName, Level: InfoLevel, Sinks: []string{"console"}},
		},
	}, &stdout)

	_ = r.Root().Debug("filtered")
	_ = r.Root().Info("first")
	_ = r.Root().Info("second")

	if got, want := stdout.String(), "2:first\n3:second\n"; got != want {
		t.Errorf("console = %q, want %q", got, want)
	}
}

func TestRouterCatching(t *testing.T) {
	t.Parallel()

	var stdout safeBuffer
	r := newTestRouter(t, routingConfig(filepath.Join(t.TempDir(), "debug.log")), &stdout)

	if err := r.Root().Catching(FatalLevel, errors.New("falcon")); err != nil {
		t.Fatalf("Catching() error: %v", err)
	}
	if err := r.Root().Catching(WarnLevel, errors.New("below root level")); err != nil {
		t.Fatalf("Catching() error: %v", err)
	}

	if got := stdout.String(); got != "Catching falcon\n" {
		t.Errorf("console = %q, want %q", got, "Catching falcon\n")
	}
}

func TestLoggerErrorStackStartsAtCallSite(t *testing.T) {
	t.Parallel()

	var stdout safeBuffer
	r := newTestRouter(t, Config{
		Sinks:   []SinkConfig{{Name: "console", Kind: ConsoleSink, Layout: LayoutConfig{Pattern: "%ex{1}"}}},
		Loggers: []LoggerConfig{{Name: RootLoggerName, Level: AllLevel, Sinks: []string{"console"}}},
	}, &stdout)

	_ = r.Root().Error("ERROR", errors.New("emu"))
	_ = r.Emit(RootLoggerName, WarnLevel, "wren", errors.New("owl"))
	_ = r.Root().Log(InfoLevel, "ibis", errors.New("kite"))

	want := "\tat github.com/tomtom215/logsetup/internal/router.TestLoggerErrorStackStartsAtCallSite(router_test.go:"
	out := stdout.String()
	if n := strings.Count(out, want); n != 3 {
		t.Errorf("call-site frames = %d, want 3:\n%s", n, out)
	}
}

func TestRouterEmitInvalidLevel(t *testing.T) {
	t.Parallel()

	var stdout safeBuffer
	r := newTestRouter(t, routingConfig(filepath.Join(t.TempDir(), "debug.log")), &stdout)

	for _, level := range []Level{AllLevel, OffLevel, Level(99)} {
		if err := r.Emit("driver", level, "x", nil); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Emit(%s) error = %v, want ErrInvalidLevel", level, err)
		}
	}
	if stdout.String() != "" {
		t.Errorf("console = %q, want empty", stdout.String())
	}
}

func TestRouterEnabled(t *testing.T) {
	t.Parallel()

	var stdout safeBuffer
	r := newTestRouter(t, routingConfig(filepath.Join(t.TempDir(), "debug.log")), &stdout)

	tests := []struct {
		logger string
		level  Level
		want   bool
	}{
		{RootLoggerName, WarnLevel, false},
		{RootLoggerName, ErrorLevel, true},
		{"driver", TraceLevel, false},
		{"driver", DebugLevel, true},
		{"driver", OffLevel, false},
		{"unlisted", FatalLevel, true},
	}

	for _, tt := range tests {
		if got := r.Logger(tt.logger).Enabled(tt.level); got != tt.want {
			t.Errorf("Logger(%q).Enabled(%s) = %v, want %v", tt.logger, tt.level, got, tt.want)
		}
	}

	_ = r.Shutdown()
	if r.Root().Enabled(FatalLevel) {
		t.Error("Enabled() must be false after shutdown")
	}
}

func TestRouterShutdown(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "debug.log")
	var stdout safeBuffer
	r := newTestRouter(t, routingConfig(path), &stdout)

	if r.State() != StateConfigured {
		t.Errorf("State() = %s, want configured", r.State())
	}
	_ = r.Logger("driver").Debug("duck")
	if r.State() != StateEmitting {
		t.Errorf("State() = %s, want emitting", r.State())
	}

	if err := r.Flush(); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if got := readFile(t, path); got != "DEBUG driver: duck\n" {
		t.Errorf("file after Flush = %q", got)
	}

	_ = r.Logger("driver").Info("ibis")
	if err := r.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if r.State() != StateShutdown {
		t.Errorf("State() = %s, want shutdown", r.State())
	}
	if got := readFile(t, path); got != "DEBUG driver: duck\nINFO  driver: ibis\n" {
		t.Errorf("file after Shutdown = %q", got)
	}

	if err := r.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error: %v", err)
	}
	if err := r.Logger("driver").Info("late"); !errors.Is(err, ErrShutdown) {
		t.Errorf("emit after shutdown error = %v, want ErrShutdown", err)
	}
	if err := r.Flush(); !errors.Is(err, ErrShutdown) {
		t.Errorf("Flush after shutdown error = %v, want ErrShutdown", err)
	}
	if strings.Contains(stdout.String(), "late") {
		t.Error("record emitted after shutdown reached the console")
	}
}

func TestRouterClock(t *testing.T) {
	t.Parallel()

	var stdout safeBuffer
	r, err := New(Config{
		Sinks: []SinkConfig{
			{Name: "console", Kind: ConsoleSink, Layout: LayoutConfig{Pattern: "%d{15:04:05} [%sn] %m%n"}},
		},
		Loggers: []LoggerConfig{{Name: RootLoggerName, Sinks: []string{"console"}}},
	},
		WithStdout(&stdout),
		WithClock(func() time.Time { return testTime }),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = r.Shutdown() })

	_ = r.Root().Info("ibis")
	_ = r.Root().Warn("wren")

	if got, want := stdout.String(), "03:04:05 [1] ibis\n03:04:05 [2] wren\n"; got != want {
		t.Errorf("console = %q, want %q", got, want)
	}
}

// TestRouterDiagnostics changes the zerolog global level and must not run in
// parallel.
func TestRouterDiagnostics(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var stdout, diag safeBuffer
	r, err := New(routingConfig(filepath.Join(t.TempDir(), "debug.log")),
		WithStdout(&stdout),
		WithDiagnostics(logging.NewTestLogger(&diag)),
		WithFailureHandler(func(err error) { t.Errorf("unexpected sink failure: %v", err) }),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_ = r.Logger("driver").Info("ibis")
	_ = r.Emit("driver", OffLevel, "x", nil)
	if err := r.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	_ = r.Logger("driver").Info("late")

	out := diag.String()
	for _, want := range []string{
		`"sink":"file"`,
		"Sink opened",
		"Router configured",
		"Record dropped: not an emittable level",
		`"records":1`,
		"Router shut down",
		"Record dropped after shutdown",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diagnostics missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(stdout.String(), "late") {
		t.Error("record emitted after shutdown reached the console")
	}
}

func TestRouterWriteFailure(t *testing.T) {
	t.Parallel()

	var failures []error
	r, err := New(Config{
		Sinks:   []SinkConfig{{Name: "broken", Kind: ConsoleSink}},
		Loggers: []LoggerConfig{{Name: RootLoggerName, Level: AllLevel, Sinks: []string{"broken"}}},
	},
		WithStdout(failingWriter{}),
		WithFailureHandler(func(err error) { failures = append(failures, err) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Shutdown() }()

	err = r.Root().Info("ibis")
	if err == nil || !strings.Contains(err.Error(), "stream closed") {
		t.Fatalf("Info() error = %v, want write failure", err)
	}
	if len(failures) != 1 || failures[0] != err {
		t.Errorf("failure handler calls = %v, want [%v]", failures, err)
	}
}

func TestRouterConcurrentEmit(t *testing.T) {
	t.Parallel()

	var stdout safeBuffer
	r := newTestRouter(t, Config{
		Sinks:   []SinkConfig{{Name: "console", Kind: ConsoleSink, Layout: LayoutConfig{Pattern: "%sn%n"}}},
		Loggers: []LoggerConfig{{Name: RootLoggerName, Level: AllLevel, Sinks: []string{"console"}}},
	}, &stdout)

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			log := r.Logger(fmt.Sprintf("worker-%d", w))
			for i := 0; i < perWorker; i++ {
				_ = log.Info("tick")
			}
		}(w)
	}
	wg.Wait()

	lines := strings.Fields(stdout.String())
	if len(lines) != workers*perWorker {
		t.Fatalf("lines = %d, want %d", len(lines), workers*perWorker)
	}
	seen := make(map[uint64]bool, len(lines))
	for _, l := range lines {
		n, err := strconv.ParseUint(l, 10, 64)
		if err != nil {
			t.Fatalf("line %q is not a sequence number", l)
		}
		if seen[n] {
			t.Errorf("sequence %d written twice", n)
		}
		seen[n] = true
	}
}

func TestRouterMetrics(t *testing.T) {
	t.Parallel()

	var stdout safeBuffer
	r := newTestRouter(t, Config{
		Sinks: []SinkConfig{
			{Name: "metrics-router-console", Kind: ConsoleSink, Level: InfoLevel},
		},
		Loggers: []LoggerConfig{
			{Name: RootLoggerName, Level: OffLevel},
			{Name: "metrics-router", Level: DebugLevel, Sinks: []string{"metrics-router-console"}},
		},
	}, &stdout)

	emitted := metrics.RecordsEmitted.WithLabelValues("metrics-router", "INFO")
	delivered := metrics.RecordsDelivered.WithLabelValues("metrics-router-console")
	byLogger := metrics.RecordsFiltered.WithLabelValues("metrics-router-console", metrics.StageLogger)
	bySink := metrics.RecordsFiltered.WithLabelValues("metrics-router-console", metrics.StageSink)
	before := []float64{
		testutil.ToFloat64(emitted),
		testutil.ToFloat64(delivered),
		testutil.ToFloat64(byLogger),
		testutil.ToFloat64(bySink),
	}

	log := r.Logger("metrics-router")
	_ = log.Trace("turkey")
	_ = log.Debug("duck")
	_ = log.Info("ibis")

	deltas := []struct {
		name string
		got  float64
		want float64
	}{
		{"emitted", testutil.ToFloat64(emitted) - before[0], 1},
		{"delivered", testutil.ToFloat64(delivered) - before[1], 1},
		{"filtered by logger", testutil.ToFloat64(byLogger) - before[2], 1},
		{"filtered by sink", testutil.ToFloat64(bySink) - before[3], 1},
	}
	for _, d := range deltas {
		if d.got != d.want {
			t.Errorf("%s delta = %v, want %v", d.name, d.got, d.want)
		}
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := map[State]string{
		StateConfigured: "configured",
		StateEmitting:   "emitting",
		StateShutdown:   "shutdown",
		State(7):        "State(7)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
