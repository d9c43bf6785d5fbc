package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommendation_requests_total",
		Help: "Total number of recommendation requests served.",
	})

	PreferenceCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "preference_cache_hits_total",
		Help: "Preference cache lookups answered from a valid entry.",
	})

	PreferenceCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "preference_cache_misses_total",
		Help: "Preference cache lookups that required a recompute.",
	})

	ExplanationDropsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommendation_explanation_drops_total",
		Help: "Candidates dropped because their explanation call failed.",
	})

	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommendation_latency_seconds",
		Help:    "End-to-end latency of one recommendation request.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		RecommendRequestsTotal,
		PreferenceCacheHitsTotal,
		PreferenceCacheMissesTotal,
		ExplanationDropsTotal,
		RecommendLatency,
	)
}
