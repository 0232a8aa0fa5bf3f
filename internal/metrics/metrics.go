package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// source: ai, fallback
	SuggestionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestion_requests_total",
			Help: "Structure suggestions served, by source",
		},
		[]string{"source"},
	)

	// result: hit, miss, error
	SuggestionCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestion_cache_total",
			Help: "Suggestion cache lookups, by result",
		},
		[]string{"result"},
	)
)

func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func RecordSuggestion(source string) {
	SuggestionRequests.WithLabelValues(source).Inc()
}

func RecordSuggestionCache(result string) {
	SuggestionCache.WithLabelValues(result).Inc()
}
