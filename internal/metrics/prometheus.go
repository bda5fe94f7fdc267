package metrics

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Prometheus metrics for the projection pipeline

var (
	// API Call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhlproj_api_calls_total",
			Help: "Total number of provider HTTP attempts",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhlproj_api_call_duration_seconds",
			Help:    "Duration of provider HTTP attempts in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Cascade metrics
	ProviderAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhlproj_provider_attempts_total",
			Help: "Total number of provider invocations by outcome",
		},
		[]string{"entity", "provider", "outcome"},
	)

	CascadeOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhlproj_cascade_outcomes_total",
			Help: "Total number of cascade resolutions by outcome",
		},
		[]string{"entity", "outcome"},
	)

	// Snapshot metrics
	SnapshotRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nhlproj_snapshot_rows",
			Help: "Rows written to the latest snapshot",
		},
		[]string{"snapshot"},
	)

	SnapshotWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhlproj_snapshot_writes_total",
			Help: "Total number of snapshot writes",
		},
		[]string{"snapshot", "status"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhlproj_db_queries_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhlproj_db_query_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nhlproj_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nhlproj_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhlproj_cache_operation_duration_seconds",
			Help:    "Duration of cache operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// Stage metrics
	StageRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhlproj_stage_runs_total",
			Help: "Total number of stage runs",
		},
		[]string{"stage", "status"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhlproj_stage_duration_seconds",
			Help:    "Duration of stage runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"stage"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhlproj_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nhlproj_last_successful_run_timestamp",
			Help: "Timestamp of the last run that completed every stage",
		},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordProviderAttempt records one provider invocation inside a cascade
func RecordProviderAttempt(entity, provider, outcome string) {
	ProviderAttemptsTotal.WithLabelValues(entity, provider, outcome).Inc()
}

// RecordCascadeOutcome records how a cascade resolved
func RecordCascadeOutcome(entity, outcome string) {
	CascadeOutcomesTotal.WithLabelValues(entity, outcome).Inc()
}

// RecordSnapshot records a snapshot write
func RecordSnapshot(snapshot, status string, rows int) {
	SnapshotWritesTotal.WithLabelValues(snapshot, status).Inc()
	if status == "success" {
		SnapshotRows.WithLabelValues(snapshot).Set(float64(rows))
	}
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordCacheOperation records a cache operation duration
func RecordCacheOperation(operation string, duration float64) {
	CacheOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordStage records a stage run
func RecordStage(stage, status string, duration float64) {
	StageRunsTotal.WithLabelValues(stage, status).Inc()
	StageDuration.WithLabelValues(stage).Observe(duration)
}

// RecordRunComplete marks the end of a run in which every stage finished
func RecordRunComplete() {
	LastSuccessfulRun.SetToCurrentTime()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// Push sends the default registry to a Pushgateway under the given job name
func Push(url, job string) error {
	if err := push.New(url, job).Gatherer(prometheus.DefaultGatherer).Push(); err != nil {
		return errors.Wrapf(err, "push metrics to %s", url)
	}
	return nil
}
