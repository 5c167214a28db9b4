package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sonic_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// StoreQueryLatency records store query latency by store, operation and collection.
	StoreQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sonic_store_query_latency_seconds",
		Help:    "Store query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"store", "operation", "collection"})

	// LikeToggles counts like toggles by resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sonic_like_toggles_total",
		Help: "Total number of like toggles by result (liked, unliked)",
	}, []string{"result"})

	// CampaignJoins counts campaign join calls by outcome.
	CampaignJoins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sonic_campaign_joins_total",
		Help: "Total number of campaign join calls by result (joined, already_member)",
	}, []string{"result"})

	// AuthAttempts counts register and login calls by outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sonic_auth_attempts_total",
		Help: "Total number of authentication attempts by operation and result",
	}, []string{"operation", "result"})
)

// StoreMetrics records query latency for one store backend.
type StoreMetrics struct {
	store string
}

// NewStoreMetrics returns a StoreMetrics labelled with store ("mongo", "postgres", "sqlite").
func NewStoreMetrics(store string) *StoreMetrics {
	return &StoreMetrics{store: store}
}

// ObserveQuery records the latency of a store query.
func (m *StoreMetrics) ObserveQuery(operation, collection string, start time.Time) {
	StoreQueryLatency.WithLabelValues(m.store, operation, collection).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *StoreMetrics) TrackQuery(operation, collection string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, collection, start)
	}
}
