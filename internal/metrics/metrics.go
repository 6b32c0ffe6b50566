// Package metrics provides Prometheus instrumentation for the trade checker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TradesSaved counts saved trade records by strategy and result.
	TradesSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradechecker_trades_saved_total",
		Help: "Total number of trade records saved",
	}, []string{"strategy", "result"})

	// TradesDeleted counts removed trade records. A clear counts once.
	TradesDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradechecker_trades_deleted_total",
		Help: "Total number of trade delete operations",
	}, []string{"kind"})

	// ValidationFailures counts saves rejected before reaching storage.
	ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradechecker_validation_failures_total",
		Help: "Trade saves rejected by validation",
	})

	// Checks counts historical lookups, partitioned by whether anything matched.
	Checks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradechecker_checks_total",
		Help: "Total number of historical match lookups",
	}, []string{"matched"})

	// Imports counts import attempts by outcome.
	Imports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradechecker_imports_total",
		Help: "Total number of trade history imports",
	}, []string{"status"})

	// StorageErrors counts failed writes to the slot backend.
	StorageErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradechecker_storage_errors_total",
		Help: "Failed storage operations",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradechecker_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tradechecker_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := routePattern(r)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern labels by the matched chi route so ids don't explode cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
