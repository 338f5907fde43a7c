// Package metrics provides the centralized Prometheus metrics registry for
// the parlay service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ParlaysGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stats_sync",
		Name:      "parlays_generated_total",
		Help:      "Total number of parlays generated",
	}, []string{"sport", "tier"})
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stats_sync",
		Name:      "provider_requests_total",
		Help:      "Total number of requests to odds providers",
	}, []string{"source"})
	ProviderFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stats_sync",
		Name:      "provider_failures_total",
		Help:      "Total number of failed provider fetches",
	}, []string{"source"})
	PropsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stats_sync",
		Name:      "props_skipped_total",
		Help:      "Total number of provider props dropped for unrecognized prop types",
	}, []string{"source"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stats_sync",
		Name:      "cache_hits_total",
		Help:      "Total number of parlay cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stats_sync",
		Name:      "cache_misses_total",
		Help:      "Total number of parlay cache misses",
	})
	FallbackServesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stats_sync",
		Name:      "fallback_serves_total",
		Help:      "Total number of times the static fallback dataset was served",
	})
)

// Gauge metrics
var (
	CachedParlays = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stats_sync",
		Name:      "cached_parlays",
		Help:      "Number of parlays currently cached per sport and tier",
	}, []string{"sport", "tier"})
	EligibleProps = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stats_sync",
		Name:      "eligible_props",
		Help:      "Number of scored props available per sport on last refresh",
	}, []string{"sport"})
)

// Histogram metrics
var (
	GenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stats_sync",
		Name:      "generation_duration_seconds",
		Help:      "Time spent generating parlays per sport",
		Buckets:   prometheus.DefBuckets,
	}, []string{"sport"})
	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stats_sync",
		Name:      "provider_request_duration_seconds",
		Help:      "Latency of provider fetches",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
)

// Registry returns the global metrics registry, registering all metrics on
// first use.
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			ParlaysGeneratedTotal,
			ProviderRequestsTotal,
			ProviderFailuresTotal,
			PropsSkippedTotal,
			CacheHitsTotal,
			CacheMissesTotal,
			FallbackServesTotal,
			CachedParlays,
			EligibleProps,
			GenerationDuration,
			ProviderRequestDuration,
		)
	})
	return registry
}
