package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes HTTP-level counters. Per-operation call metrics live in
// the service package and share the default registry.
type Metrics struct {
	handler http.Handler
}

var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "detmath_http_active_requests",
		Help: "Current number of in-flight HTTP requests",
	})
	totalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "detmath_http_requests_total",
		Help: "HTTP requests by path and status code",
	}, []string{"path", "code"})
)

// NewMetrics creates a Metrics instance serving the default registry.
func NewMetrics() *Metrics {
	return &Metrics{handler: promhttp.Handler()}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.metrics.handler.ServeHTTP(w, r)
}

// metricsMiddleware tracks in-flight requests and counts responses by code.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeRequests.Inc()
		defer activeRequests.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		totalRequests.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
