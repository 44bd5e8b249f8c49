// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts fresh cache serves that skipped a provider call.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goldwatch_cache_hits_total",
		Help: "Fresh cache hits that avoided a provider call.",
	})

	// CacheMisses counts cache lookups that triggered a fetch.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goldwatch_cache_misses_total",
		Help: "Cache lookups that required a provider fetch.",
	})

	// CacheStaleServes counts failed fetches answered with a stale entry.
	CacheStaleServes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goldwatch_cache_stale_serves_total",
		Help: "Failed fetches served from an expired cache entry.",
	})

	// FetchErrors counts provider-level failures by source.
	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goldwatch_fetch_errors_total",
		Help: "Provider fetch failures by source.",
	}, []string{"source"})

	// GroupTimeouts counts orchestrator fetch groups abandoned at their
	// deadline.
	GroupTimeouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goldwatch_fetch_group_timeouts_total",
		Help: "Fetch groups that exceeded their deadline.",
	}, []string{"group"})

	// RateLimitHits counts rate-limit signals from the price provider.
	RateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goldwatch_rate_limit_hits_total",
		Help: "Rate-limit responses from the price provider.",
	})

	// CycleDuration observes full snapshot cycle wall time.
	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "goldwatch_cycle_duration_seconds",
		Help:    "Duration of one snapshot cycle.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	// SnapshotsBuilt counts completed snapshot cycles.
	SnapshotsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goldwatch_snapshots_built_total",
		Help: "Snapshots assembled since start.",
	})
)
