package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the gateway.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dragTotal       *prometheus.CounterVec
	submitTotal     *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors. sessions reports
// the live editor-session count.
func NewMetricsService(sessions func() float64) *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	upstreamLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of content API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	upstreamErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_errors_total",
		Help: "Content API calls that failed",
	}, []string{"operation"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Catalog list reads served from cache",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Catalog list reads that went upstream",
	})

	dragTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "editor_drag_operations_total",
		Help: "Drag-end operations by domain and outcome",
	}, []string{"domain", "outcome"})

	submitTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "editor_submissions_total",
		Help: "Version submissions by outcome",
	}, []string{"outcome"})

	editorSessions := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "editor_sessions_active",
		Help: "Currently open editor sessions",
	}, sessions)

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, upstreamLatency, upstreamErrors,
		cacheHits, cacheMisses, dragTotal, submitTotal, editorSessions, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		upstreamLatency: upstreamLatency,
		upstreamErrors:  upstreamErrors,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		dragTotal:       dragTotal,
		submitTotal:     submitTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveUpstream records one content API call.
func (m *MetricsService) ObserveUpstream(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.upstreamErrors.WithLabelValues(operation).Inc()
	}
}

// RecordCacheOperation records a catalog cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// RecordDrag records a drag-end by domain and whether it mutated state.
func (m *MetricsService) RecordDrag(domain string, moved bool) {
	if m == nil {
		return
	}
	outcome := "noop"
	if moved {
		outcome = "moved"
	}
	m.dragTotal.WithLabelValues(domain, outcome).Inc()
}

// RecordSubmit records a version submission outcome.
func (m *MetricsService) RecordSubmit(outcome string) {
	if m == nil {
		return
	}
	m.submitTotal.WithLabelValues(outcome).Inc()
}
