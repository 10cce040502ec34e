// Package metrics provides Prometheus metrics for snapshot operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationAttempts tracks snapshot operations by outcome.
	OperationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablesnap_operation_attempts_total",
		Help: "Total number of snapshot operations",
	}, []string{"operation", "status"})

	// OperationDuration tracks the duration of operation phases.
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tablesnap_operation_duration_seconds",
		Help:    "Duration of snapshot operation phases in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3min
	}, []string{"operation", "phase"})

	// SnapshotSize tracks the size of the last stored snapshot artifact.
	SnapshotSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tablesnap_snapshot_size_bytes",
		Help: "Size of the last stored snapshot artifact in bytes",
	})

	// LastStoreTimestamp tracks when the last successful store occurred.
	LastStoreTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tablesnap_last_store_timestamp",
		Help: "Unix timestamp of the last successful snapshot store",
	})

	// Info provides static information about the service.
	Info = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tablesnap_info",
		Help: "Information about the snapshot service",
	}, []string{"version", "storage_provider"})
)

// RecordOperation records an operation attempt with its outcome.
func RecordOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	OperationAttempts.WithLabelValues(operation, status).Inc()
}
