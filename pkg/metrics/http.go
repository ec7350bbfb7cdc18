package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the feed and search HTTP handlers
	FeedRequestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feed_request_latency_seconds",
		Help:    "Latency of feed and search handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// Total number of feed and search requests served, by status code
	FeedRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_requests_total",
		Help: "Total number of feed and search requests",
	}, []string{"endpoint", "status"})
)

func Init() {
	prometheus.MustRegister(
		FeedRequestLatency,
		FeedRequests,
	)
}
