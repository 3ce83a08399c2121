// Package metrics exposes Prometheus instrumentation for the HTTP API and
// the normalization and analysis pipelines.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for the service.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	normalizationsTotal *prometheus.CounterVec
	analysesTotal       *prometheus.CounterVec
}

// New registers the service collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finsight_http_requests_total",
			Help: "HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finsight_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		normalizationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finsight_normalizations_total",
			Help: "Normalization runs by detected format.",
		}, []string{"format"}),
		analysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finsight_analyses_total",
			Help: "Analysis runs by type and outcome.",
		}, []string{"type", "outcome"}),
	}
}

// RegisterSessionGauge exposes the session store size as a gauge sampled at
// scrape time.
func (m *Metrics) RegisterSessionGauge(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "finsight_active_sessions",
		Help: "Datasets currently held in the session store.",
	}, func() float64 { return float64(count()) }))
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies. Uses the route pattern
// so path cardinality stays bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		m.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
		m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordNormalization counts a normalization run.
func (m *Metrics) RecordNormalization(format string) {
	m.normalizationsTotal.WithLabelValues(format).Inc()
}

// RecordAnalysis counts an analysis run.
func (m *Metrics) RecordAnalysis(analysisType string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.analysesTotal.WithLabelValues(analysisType, outcome).Inc()
}
