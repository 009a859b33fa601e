package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsSnapshot is a point-in-time summary of recorded metrics.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	APICallsTotal            uint64    `json:"api_calls_total"`
	APIFailuresTotal         uint64    `json:"api_failures_total"`
	AverageAPICallDurationMs float64   `json:"average_api_call_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// MetricsService encapsulates Prometheus instrumentation for both the dev API
// (inbound requests) and the client (outbound API calls).
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	apiTotal        *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	apiCallCount         uint64
	apiFailureCount      uint64
	apiDurationTotal     uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
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

	apiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gradebook_api_call_duration_seconds",
		Help:    "Duration of calls to the grade API in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	apiTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gradebook_api_calls_total",
		Help: "Total number of calls to the grade API",
	}, []string{"method", "route", "status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, apiDuration, apiTotal, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		apiDuration:     apiDuration,
		apiTotal:        apiTotal,
	}
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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

// ObserveHTTPRequest records inbound request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveAPICall records an outbound call. Status 0 means no response.
func (m *MetricsService) ObserveAPICall(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.apiDuration.WithLabelValues(method, route, labelStatus).Observe(duration.Seconds())
	m.apiTotal.WithLabelValues(method, route, labelStatus).Inc()
	atomic.AddUint64(&m.apiCallCount, 1)
	atomic.AddUint64(&m.apiDurationTotal, uint64(duration.Nanoseconds()))
	if status == 0 || status >= http.StatusInternalServerError {
		atomic.AddUint64(&m.apiFailureCount, 1)
	}
}

// Snapshot returns aggregated metrics.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	calls := atomic.LoadUint64(&m.apiCallCount)
	callDuration := atomic.LoadUint64(&m.apiDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgCallMs float64
	if calls > 0 {
		avgCallMs = float64(callDuration) / float64(calls) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		APICallsTotal:            calls,
		APIFailuresTotal:         atomic.LoadUint64(&m.apiFailureCount),
		AverageAPICallDurationMs: avgCallMs,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
