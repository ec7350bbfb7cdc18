package feed

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FeedCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_lookups_total",
			Help: "Home feed cache lookups by result (hit, miss, bypass).",
		},
		[]string{"result"},
	)

	OracleAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_oracle_attempts_total",
			Help: "Ranking oracle calls by endpoint and outcome (success, transient, fatal).",
		},
		[]string{"endpoint", "outcome"},
	)

	SearchFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_search_fallbacks_total",
			Help: "Searches served by the recency fallback, by reason (mode, oracle_error).",
		},
		[]string{"reason"},
	)

	FeedItemsBySourceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_items_by_source_total",
			Help: "Items served by endpoint and candidate source.",
		},
		[]string{"endpoint", "source"},
	)
)

func init() {
	prometheus.MustRegister(
		FeedCacheLookupsTotal,
		OracleAttemptsTotal,
		SearchFallbacksTotal,
		FeedItemsBySourceTotal,
	)
}
