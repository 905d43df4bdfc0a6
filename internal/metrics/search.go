package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	EngineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "windrose",
			Name:      "engine_requests_total",
			Help:      "Engine dispatches by outcome",
		},
		[]string{"engine", "status"}, // status: success / failure / cancelled
	)

	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "windrose",
			Name:      "engine_request_duration_seconds",
			Help:      "Engine search latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3.5, 5, 10},
		},
		[]string{"engine"},
	)

	EngineResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "windrose",
			Name:      "engine_results_total",
			Help:      "Raw results contributed per engine before merging",
		},
		[]string{"engine"},
	)

	BreakerOpenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "windrose",
			Name:      "breaker_open_total",
			Help:      "Times an engine was skipped because its breaker was open",
		},
		[]string{"engine"},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "windrose",
			Name:      "searches_total",
			Help:      "Completed searches by outcome",
		},
		[]string{"outcome"}, // full / partial / empty
	)

	SearchResultCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "windrose",
			Name:      "search_result_count",
			Help:      "Final merged result count per search",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	ResponseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "windrose",
			Name:      "response_cache_total",
			Help:      "Response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers the search pipeline metrics. Must be
// called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(EngineRequestsTotal)
	prometheus.MustRegister(EngineRequestDuration)
	prometheus.MustRegister(EngineResultsTotal)
	prometheus.MustRegister(BreakerOpenTotal)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchResultCount)
	prometheus.MustRegister(ResponseCacheTotal)
	searchMetricsRegistered = true
}
