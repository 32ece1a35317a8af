// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordEmit(t *testing.T) {
	c := RecordsEmitted.WithLabelValues("metrics-test", "INFO")
	before := testutil.ToFloat64(c)

	RecordEmit("metrics-test", "INFO")
	RecordEmit("metrics-test", "INFO")

	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("RecordsEmitted delta = %v, want 2", got)
	}
}

func TestRecordDelivery(t *testing.T) {
	tests := []struct {
		name          string
		sink          string
		err           error
		wantDelivered float64
		wantErrors    float64
	}{
		{
			name:          "successful write",
			sink:          "metrics-test-ok",
			err:           nil,
			wantDelivered: 1,
			wantErrors:    0,
		},
		{
			name:          "failed write",
			sink:          "metrics-test-fail",
			err:           errors.New("disk full"),
			wantDelivered: 0,
			wantErrors:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delivered := RecordsDelivered.WithLabelValues(tt.sink)
			failed := SinkWriteErrors.WithLabelValues(tt.sink)
			beforeDelivered := testutil.ToFloat64(delivered)
			beforeFailed := testutil.ToFloat64(failed)

			RecordDelivery(tt.sink, tt.err)

			if got := testutil.ToFloat64(delivered) - beforeDelivered; got != tt.wantDelivered {
				t.Errorf("RecordsDelivered delta = %v, want %v", got, tt.wantDelivered)
			}
			if got := testutil.ToFloat64(failed) - beforeFailed; got != tt.wantErrors {
				t.Errorf("SinkWriteErrors delta = %v, want %v", got, tt.wantErrors)
			}
		})
	}
}

func TestRecordFiltered(t *testing.T) {
	for _, stage := range []string{StageLogger, StageSink} {
		t.Run(stage, func(t *testing.T) {
			c := RecordsFiltered.WithLabelValues("metrics-test", stage)
			before := testutil.ToFloat64(c)

			RecordFiltered("metrics-test", stage)

			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("RecordsFiltered{stage=%s} delta = %v, want 1", stage, got)
			}
		})
	}
}

func TestRecordFlush(t *testing.T) {
	c := SinkFlushes.WithLabelValues("metrics-test")
	before := testutil.ToFloat64(c)

	RecordFlush("metrics-test")

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("SinkFlushes delta = %v, want 1", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordEmit("metrics-textfile", "WARN")
	RecordDelivery("metrics-textfile", nil)

	path := filepath.Join(t.TempDir(), "logsetup.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	out := string(data)
	for _, want := range []string{
		"# TYPE logsetup_records_emitted_total counter",
		`logsetup_records_emitted_total{level="WARN",logger="metrics-textfile"}`,
		`logsetup_records_delivered_total{sink="metrics-textfile"}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics file missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextfileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "logsetup.prom")
	if err := WriteTextfile(path); err == nil {
		t.Error("WriteTextfile() into a missing directory: expected error")
	}
}
