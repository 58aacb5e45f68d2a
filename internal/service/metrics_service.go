package service

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsService exposes prometheus collectors plus an in-process
// snapshot used by the JSON metrics endpoint.
type MetricsService struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	cacheOps          *prometheus.CounterVec
	upstreamDuration  *prometheus.HistogramVec
	generationAttempt *prometheus.CounterVec

	totalRequests atomic.Int64
	totalErrors   atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
}

// MetricsSnapshot is the JSON view of the in-process counters.
type MetricsSnapshot struct {
	TotalRequests int64 `json:"totalRequests"`
	TotalErrors   int64 `json:"totalErrors"`
	CacheHits     int64 `json:"cacheHits"`
	CacheMisses   int64 `json:"cacheMisses"`
}

// NewMetricsService builds and registers all collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	s := &MetricsService{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_api_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_api_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_api_cache_operations_total",
			Help: "Cache lookups by outcome.",
		}, []string{"outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_api_upstream_request_duration_seconds",
			Help:    "Platform backend request latency by endpoint.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		generationAttempt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_api_generation_attempts_total",
			Help: "Question generation attempts by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		s.httpRequests,
		s.httpDuration,
		s.cacheOps,
		s.upstreamDuration,
		s.generationAttempt,
	)

	return s
}

// Registry returns the prometheus registry for the /metrics handler.
func (s *MetricsService) Registry() *prometheus.Registry {
	return s.registry
}

// ObserveRequest records one finished HTTP request.
func (s *MetricsService) ObserveRequest(method, path string, status int, duration time.Duration) {
	s.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	s.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	s.totalRequests.Add(1)
	if status >= 500 {
		s.totalErrors.Add(1)
	}
}

// ObserveCache records one cache lookup outcome.
func (s *MetricsService) ObserveCache(hit bool) {
	if hit {
		s.cacheOps.WithLabelValues("hit").Inc()
		s.cacheHits.Add(1)
		return
	}
	s.cacheOps.WithLabelValues("miss").Inc()
	s.cacheMisses.Add(1)
}

// ObserveUpstream records the latency of one platform backend call.
func (s *MetricsService) ObserveUpstream(endpoint string, duration time.Duration) {
	s.upstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveGeneration records one generation attempt outcome
// (accepted, rejected, empty, failed).
func (s *MetricsService) ObserveGeneration(outcome string) {
	s.generationAttempt.WithLabelValues(outcome).Inc()
}

// Snapshot returns the current in-process counters.
func (s *MetricsService) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		TotalRequests: s.totalRequests.Load(),
		TotalErrors:   s.totalErrors.Load(),
		CacheHits:     s.cacheHits.Load(),
		CacheMisses:   s.cacheMisses.Load(),
	}
}
