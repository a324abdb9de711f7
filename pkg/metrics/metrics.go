// Package metrics provides Prometheus metrics for the devrank scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	registry *prometheus.Registry

	// Scoring pipeline
	scoresComputed  *prometheus.CounterVec
	scoringErrors   *prometheus.CounterVec
	scoringLatency  prometheus.Histogram
	scoredUsers     *prometheus.GaugeVec
	batchRuns       prometheus.Counter
	batchItemFailed prometheus.Counter

	// Ranking reads
	rankingQueries      prometheus.Counter
	rankingQueryLatency prometheus.Histogram

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a Manager backed by its own registry.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Manager{
		registry: registry,
		scoresComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "devrank_scores_computed_total",
			Help: "Total number of scores computed and persisted.",
		}, []string{"version"}),
		scoringErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "devrank_scoring_errors_total",
			Help: "Total number of failed score computations.",
		}, []string{"version"}),
		scoringLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "devrank_scoring_latency_ms",
			Help:    "Latency of a single score computation in milliseconds.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
		}),
		scoredUsers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "devrank_scored_users",
			Help: "Number of users with a persisted score per algorithm version.",
		}, []string{"version"}),
		batchRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "devrank_batch_runs_total",
			Help: "Total number of batch recomputation runs.",
		}),
		batchItemFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "devrank_batch_item_failures_total",
			Help: "Total number of per-user failures inside batch runs.",
		}),
		rankingQueries: factory.NewCounter(prometheus.CounterOpts{
			Name: "devrank_ranking_queries_total",
			Help: "Total number of ranking queries served.",
		}),
		rankingQueryLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "devrank_ranking_query_latency_ms",
			Help:    "Latency of ranking queries in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "devrank_http_requests_total",
			Help: "Total HTTP requests by endpoint, method and status.",
		}, []string{"endpoint", "method", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "devrank_http_request_duration_ms",
			Help:    "HTTP request duration in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"endpoint", "method", "status"}),
	}
}

var defaultManager = NewManager()

// GetRegistry returns the registry of the default manager for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return defaultManager.registry
}

// RecordScoreComputed increments the computed-scores counter for a version.
func RecordScoreComputed(version string) {
	defaultManager.scoresComputed.WithLabelValues(version).Inc()
}

// RecordScoringError increments the scoring-errors counter for a version.
func RecordScoringError(version string) {
	defaultManager.scoringErrors.WithLabelValues(version).Inc()
}

// RecordScoringLatency records one score computation duration in milliseconds.
func RecordScoringLatency(ms float64) {
	defaultManager.scoringLatency.Observe(ms)
}

// UpdateScoredUsers sets the number of scored users for a version.
func UpdateScoredUsers(version string, n int) {
	defaultManager.scoredUsers.WithLabelValues(version).Set(float64(n))
}

// RecordBatchRun increments the batch-run counter.
func RecordBatchRun() {
	defaultManager.batchRuns.Inc()
}

// RecordBatchItemFailure increments the per-item batch failure counter.
func RecordBatchItemFailure() {
	defaultManager.batchItemFailed.Inc()
}

// RecordRankingQuery increments the ranking query counter.
func RecordRankingQuery() {
	defaultManager.rankingQueries.Inc()
}

// RecordRankingQueryLatency records a ranking query duration in milliseconds.
func RecordRankingQueryLatency(ms float64) {
	defaultManager.rankingQueryLatency.Observe(ms)
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, status string) {
	defaultManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	defaultManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
