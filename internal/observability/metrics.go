package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindnest_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kindnest_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// LedgerOperations counts ledger facade operations by name and outcome.
	LedgerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindnest_ledger_operations_total",
		Help: "Total ledger operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// CounterReconciles counts denormalized counter recomputations by kind.
	CounterReconciles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindnest_counter_reconciles_total",
		Help: "Total counter reconciliations by counter kind",
	}, []string{"kind"})

	// CacheInvalidationFailures counts cache invalidations that failed and were swallowed.
	CacheInvalidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindnest_cache_invalidation_failures_total",
		Help: "Total cache invalidation failures by key namespace",
	}, []string{"namespace"})

	// ReputationAdjustments counts XP adjustments by direction.
	ReputationAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindnest_reputation_adjustments_total",
		Help: "Total reputation adjustments by source and direction",
	}, []string{"source", "direction"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// RecordLedgerOperation increments the ledger operation counter. Outcome is
// either "ok" or the AppError code of the failure.
func RecordLedgerOperation(operation, outcome string) {
	LedgerOperations.WithLabelValues(operation, outcome).Inc()
}
