package fetcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedFetchSuccesses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teletext_feed_fetch_successes_total",
		Help: "Number of feed fetches that parsed successfully",
	})
	feedFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teletext_feed_fetch_errors_total",
		Help: "Number of feed fetches that failed during transport or parsing",
	})
	articlesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teletext_articles_fetched_total",
		Help: "Number of normalized articles produced across all fetches",
	})
	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "teletext_aggregation_duration_seconds",
		Help:    "Wall time of full aggregation runs",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
)
