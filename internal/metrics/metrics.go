// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Filter stages reported by RecordsFiltered.
const (
	StageLogger = "logger"
	StageSink   = "sink"
)

var (
	// Router Metrics
	RecordsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logsetup_records_emitted_total",
			Help: "Total number of records emitted, by resolved logger and level",
		},
		[]string{"logger", "level"},
	)

	RecordsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logsetup_records_delivered_total",
			Help: "Total number of records written to a sink",
		},
		[]string{"sink"},
	)

	RecordsFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logsetup_records_filtered_total",
			Help: "Total number of records a sink did not receive, by filter stage",
		},
		[]string{"sink", "stage"}, // "logger", "sink"
	)

	// Sink Metrics
	SinkWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logsetup_sink_write_errors_total",
			Help: "Total number of failed sink writes",
		},
		[]string{"sink"},
	)

	SinkFlushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logsetup_sink_flushes_total",
			Help: "Total number of explicit sink flushes (Flush or Shutdown)",
		},
		[]string{"sink"},
	)
)

// RecordEmit records a record entering the router
func RecordEmit(logger, level string) {
	RecordsEmitted.WithLabelValues(logger, level).Inc()
}

// RecordDelivery records the outcome of a sink write
func RecordDelivery(sink string, err error) {
	if err != nil {
		SinkWriteErrors.WithLabelValues(sink).Inc()
		return
	}
	RecordsDelivered.WithLabelValues(sink).Inc()
}

// RecordFiltered records a record withheld from a sink at the given stage
func RecordFiltered(sink, stage string) {
	RecordsFiltered.WithLabelValues(sink, stage).Inc()
}

// RecordFlush records an explicit sink flush
func RecordFlush(sink string) {
	SinkFlushes.WithLabelValues(sink).Inc()
}

// WriteTextfile writes every metric of the default registry to path in the
// Prometheus text exposition format. The file is replaced atomically, so a
// node_exporter textfile collector can pick it up.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
