package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation on a private
// registry. A nil *MetricsService is a no-op everywhere so wiring stays
// optional.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	reconcileWrites prometheus.Counter
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

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_cache_hits_total",
		Help: "Weekly grid cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_cache_misses_total",
		Help: "Weekly grid cache misses",
	})

	reconcileWrites := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "availability_reconcile_writes_total",
		Help: "Rows written (inserted or deleted) by availability reconciliation",
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses, reconcileWrites)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		reconcileWrites: reconcileWrites,
	}
}

// Handler returns the Prometheus scrape handler.
func (s *MetricsService) Handler() http.Handler {
	if s == nil {
		return nil
	}
	return s.handler
}

// ObserveHTTPRequest records latency and count for one request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// ObserveCacheHit counts a weekly grid cache hit.
func (s *MetricsService) ObserveCacheHit() {
	if s == nil {
		return
	}
	s.cacheHits.Inc()
}

// ObserveCacheMiss counts a weekly grid cache miss.
func (s *MetricsService) ObserveCacheMiss() {
	if s == nil {
		return
	}
	s.cacheMisses.Inc()
}

// ObserveReconcileWrites counts rows written by one reconciliation.
func (s *MetricsService) ObserveReconcileWrites(n int) {
	if s == nil || n <= 0 {
		return
	}
	s.reconcileWrites.Add(float64(n))
}
