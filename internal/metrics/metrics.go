// Package metrics holds the Prometheus collectors for outbound calls and
// orchestrated operations, plus an optional debug endpoint exposing them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the client's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stregterm",
			Subsystem: "http_client",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight outbound HTTP requests.",
		},
	)

	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stregterm",
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Total number of outbound HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stregterm",
			Subsystem: "http_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"service", "method", "path"},
	)

	operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stregterm",
			Subsystem: "actions",
			Name:      "operations_total",
			Help:      "Total number of orchestrated operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)

	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stregterm",
			Subsystem: "actions",
			Name:      "operation_duration_seconds",
			Help:      "Duration of orchestrated operations.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"operation"},
	)
)

func init() {
	Registry.MustRegister(
		requestsInFlight,
		requests,
		requestDuration,
		operations,
		operationDuration,
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// StartRequest marks an outbound request in flight and returns the function
// that records its completion. status 0 means the transport failed.
func StartRequest(service, method, path string) func(status int) {
	start := time.Now()
	requestsInFlight.Inc()
	return func(status int) {
		requestsInFlight.Dec()
		p := canonicalPath(path)
		m := strings.ToUpper(method)
		label := "error"
		if status > 0 {
			label = strconv.Itoa(status)
		}
		requests.WithLabelValues(service, m, p, label).Inc()
		requestDuration.WithLabelValues(service, m, p).Observe(time.Since(start).Seconds())
	}
}

// RecordOperation records the outcome of an orchestrated operation.
func RecordOperation(operation, outcome string, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	operations.WithLabelValues(operation, outcome).Inc()
	operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// canonicalPath strips the query string so label cardinality stays bounded.
func canonicalPath(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" {
		return "/"
	}
	return raw
}

// Server serves /metrics for local debugging.
type Server struct {
	srv *http.Server
}

// NewServer returns a metrics server listening on addr.
func NewServer(addr string) *Server {
	r := mux.NewRouter()
	r.Handle("/metrics", Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves in the background. Errors after startup go to errFn.
func (s *Server) Start(errFn func(error)) {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errFn(err)
		}
	}()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
