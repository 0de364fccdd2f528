package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Matching Prometheus metrics.
var (
	PairsScoredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "matchd",
			Name:      "pairs_scored_total",
			Help:      "Total number of requirement/candidate pairs scored",
		},
	)

	BatchRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "matchd",
			Name:      "batch_run_duration_seconds",
			Help:      "Batch matching run duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	BatchRunErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "matchd",
			Name:      "batch_run_errors_total",
			Help:      "Total per-pair errors across batch runs",
		},
	)

	MatchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchd",
			Name:      "match_cache_total",
			Help:      "Match result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var matchingMetricsRegistered bool

// RegisterMatchingMetrics registers Prometheus matching metrics. Must be called once from main.
func RegisterMatchingMetrics() {
	if matchingMetricsRegistered {
		return
	}
	prometheus.MustRegister(PairsScoredTotal)
	prometheus.MustRegister(BatchRunDuration)
	prometheus.MustRegister(BatchRunErrorsTotal)
	prometheus.MustRegister(MatchCacheTotal)
	matchingMetricsRegistered = true
}

// ObserveBatchRun records the duration of a batch run and its per-pair error count.
func ObserveBatchRun(d time.Duration, errs int) {
	BatchRunDuration.Observe(d.Seconds())
	BatchRunErrorsTotal.Add(float64(errs))
}
