// Package metrics exposes Prometheus metrics for the row codec and the
// document store.
//
// # Basic Usage
//
//	timer := metrics.NewTimer()
//	buf, err := frame.Encode(ctx)
//	metrics.ObserveCodec(metrics.OpEncode, timer.Stop(), frame.Height(), len(buf), err)
//
// All metrics are registered on the default registry at init.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Codec operations
const (
	OpEncode = "encode"
	OpDecode = "decode"
)

var (
	// FieldsProcessed counts fields encoded or decoded, by operation,
	// logical type and status (success/failure).
	FieldsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colseries_codec_fields_total",
			Help: "Total number of fields encoded or decoded",
		},
		[]string{"operation", "type", "status"},
	)

	// RowsProcessed counts rows moved through whole-frame codec calls.
	RowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colseries_codec_rows_total",
			Help: "Total number of rows encoded or decoded",
		},
		[]string{"operation"},
	)

	// BytesProcessed counts row buffer bytes produced or consumed.
	BytesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colseries_codec_bytes_total",
			Help: "Total number of row buffer bytes encoded or decoded",
		},
		[]string{"operation"},
	)

	// CodecErrors counts failed whole-frame codec calls.
	CodecErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colseries_codec_errors_total",
			Help: "Total number of failed frame encode/decode calls",
		},
		[]string{"operation"},
	)

	// CodecLatency tracks frame encode/decode latency in seconds.
	CodecLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "colseries_codec_latency_seconds",
			Help:    "Frame encode/decode latency in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8), // 1µs .. 10s
		},
		[]string{"operation"},
	)

	// StoreOperations counts document store calls by driver, operation and
	// status.
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colseries_store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"driver", "operation", "status"},
	)
)

// Status returns the status label for err.
func Status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// ObserveField records one field encode or decode.
func ObserveField(op, typ string, err error) {
	FieldsProcessed.WithLabelValues(op, typ, Status(err)).Inc()
}

// ObserveCodec records one whole-frame encode or decode.
func ObserveCodec(op string, elapsed time.Duration, rows, bytes int, err error) {
	CodecLatency.WithLabelValues(op).Observe(elapsed.Seconds())
	if err != nil {
		CodecErrors.WithLabelValues(op).Inc()
		return
	}
	RowsProcessed.WithLabelValues(op).Add(float64(rows))
	BytesProcessed.WithLabelValues(op).Add(float64(bytes))
}

// ObserveStore records one document store call.
func ObserveStore(driver, op string, err error) {
	StoreOperations.WithLabelValues(driver, op, Status(err)).Inc()
}

// Timer measures elapsed time
type Timer struct {
	start time.Time
}

// NewTimer starts a timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed time
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
