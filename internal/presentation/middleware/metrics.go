package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Metrics returns a middleware that collects Prometheus metrics
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.status)

			// Normalize path to avoid high cardinality
			path := normalizePath(r.URL.Path)

			httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

// normalizePath normalizes the path to reduce cardinality
func normalizePath(path string) string {
	// For now, return the path as-is
	// In production, you might want to replace UUIDs, IDs, etc.
	return path
}

// TransferMetrics holds Prometheus metrics for transfer construction
type TransferMetrics struct {
	TransfersBuilt     prometheus.Counter
	TransfersAugmented prometheus.Counter
	ClaimsAttached     prometheus.Counter
	BuildErrors        prometheus.Counter
}

// NewTransferMetrics creates new transfer construction metrics
func NewTransferMetrics() *TransferMetrics {
	return &TransferMetrics{
		TransfersBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Name: "engine_transfers_built_total",
			Help: "Total number of transfer plans built",
		}),
		TransfersAugmented: promauto.NewCounter(prometheus.CounterOpts{
			Name: "engine_transfers_augmented_total",
			Help: "Total number of transfers augmented with a mintless claim",
		}),
		ClaimsAttached: promauto.NewCounter(prometheus.CounterOpts{
			Name: "engine_mintless_claims_attached_total",
			Help: "Total number of transfer plans carrying a mintless claim",
		}),
		BuildErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "engine_transfer_build_errors_total",
			Help: "Total number of failed transfer builds",
		}),
	}
}
