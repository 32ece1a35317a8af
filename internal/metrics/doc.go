// Logsetup - Level-Routed Console and File Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logsetup

/*
Package metrics provides Prometheus counters for the log router.

The counters are registered with the default Prometheus registry through
promauto. Nothing in this module serves them over the network; WriteTextfile
dumps them to a file in the Prometheus text format, which cmd/logsetup does
after shutdown when diagnostics.metrics_file is set.

# Available Metrics

Router Metrics:
  - logsetup_records_emitted_total: Records emitted (counter)
    Labels: logger (resolved routing entry), level
  - logsetup_records_delivered_total: Records written to a sink (counter)
    Labels: sink
  - logsetup_records_filtered_total: Records a listed sink did not receive (counter)
    Labels: sink, stage (logger, sink)

Sink Metrics:
  - logsetup_sink_write_errors_total: Failed writes (counter)
    Labels: sink
  - logsetup_sink_flushes_total: Explicit flushes (counter)
    Labels: sink

# Usage Example

	metrics.RecordEmit("root", "ERROR")
	metrics.RecordDelivery("console", nil)
	metrics.RecordFiltered("file", metrics.StageSink)

# Testing

Use prometheus/testutil to read counters:

	before := testutil.ToFloat64(metrics.RecordsDelivered.WithLabelValues("console"))
*/
package metrics
