// Package metrics provides Prometheus metrics for the NAS Cloud client.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nascloud_api_requests_total",
			Help: "Total API requests issued by the client",
		},
		[]string{"operation", "result"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nascloud_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	uploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nascloud_upload_bytes_total",
			Help: "Total bytes uploaded",
		},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nascloud_uploads_total",
			Help: "Total single-file uploads",
		},
		[]string{"result"},
	)

	uploadBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nascloud_upload_batches_total",
			Help: "Total upload batches by terminal state",
		},
		[]string{"outcome"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr. It blocks, so callers run it in a
// goroutine; errors are returned for logging.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, mux)
}

// RecordAPIRequest records an API call outcome and duration.
func RecordAPIRequest(operation, result string, duration time.Duration) {
	apiRequestsTotal.WithLabelValues(operation, result).Inc()
	apiRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordUpload records a single-file upload.
func RecordUpload(bytes int64, success bool) {
	uploadBytesTotal.Add(float64(bytes))
	result := "success"
	if !success {
		result = "error"
	}
	uploadsTotal.WithLabelValues(result).Inc()
}

// RecordBatch records an upload batch terminal state: "completed",
// "aborted" or "canceled".
func RecordBatch(outcome string) {
	uploadBatchesTotal.WithLabelValues(outcome).Inc()
}
