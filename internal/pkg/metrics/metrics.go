// Package metrics provides Prometheus metrics recording for internal packages.
// This package exists to avoid import cycles between database, service and
// middleware packages.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SlowQueryThreshold is the duration above which a query counts as slow
const SlowQueryThreshold = 100 * time.Millisecond

var (
	// dbQueryDuration tracks database query duration in seconds
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vizboard_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"database"},
	)

	dbQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vizboard_db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"database"},
	)

	dbSlowQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vizboard_db_slow_queries_total",
			Help: "Total number of slow database queries (>100ms)",
		},
		[]string{"database"},
	)

	// failuresTotal counts classified request failures
	failuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vizboard_failures_total",
			Help: "Total number of failed requests by classification rule and status",
		},
		[]string{"rule", "status"},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vizboard_uploads_total",
			Help: "Total number of dataset uploads by storage provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	uploadBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vizboard_upload_size_bytes",
			Help:    "Size of stored dataset files in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"provider"},
	)
)

// Upload outcomes
const (
	UploadStored   = "stored"
	UploadRejected = "rejected"
	UploadFailed   = "failed"
)

// RecordDBQuery records database query metrics
func RecordDBQuery(database string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(database).Observe(duration.Seconds())

	if duration > SlowQueryThreshold {
		dbSlowQueries.WithLabelValues(database).Inc()
	}
}

// RecordDBError records a database query error
func RecordDBError(database string) {
	dbQueryErrors.WithLabelValues(database).Inc()
}

// RecordFailure counts a failed request by the rule that classified it
func RecordFailure(rule string, status int) {
	failuresTotal.WithLabelValues(rule, strconv.Itoa(status)).Inc()
}

// RecordUpload counts an upload attempt
func RecordUpload(provider, outcome string, size int64) {
	uploadsTotal.WithLabelValues(provider, outcome).Inc()
	if outcome == UploadStored {
		uploadBytes.WithLabelValues(provider).Observe(float64(size))
	}
}
