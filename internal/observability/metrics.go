package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Aggregate labels.
const (
	AggregateFriendCount  = "friend_count"
	AggregateCommentCount = "comment_count"
	AggregateReactions    = "reactions"
)

var (
	// AggregateRecomputeTotal counts recompute attempts by aggregate.
	AggregateRecomputeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_aggregate_recompute_total",
		Help: "Total number of denormalized aggregate recomputations",
	}, []string{"aggregate"})

	// AggregateRecomputeFailures counts recomputations that failed and were swallowed.
	AggregateRecomputeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_aggregate_recompute_failures_total",
		Help: "Total number of failed denormalized aggregate recomputations",
	}, []string{"aggregate"})

	// AggregateRecomputeDuration records recompute latency (count query plus write).
	AggregateRecomputeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "social_aggregate_recompute_duration_seconds",
		Help:    "Latency of denormalized aggregate recomputations in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"aggregate"})

	// FriendshipTransitions counts relationship state changes.
	FriendshipTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_friendship_transitions_total",
		Help: "Total number of friendship state transitions",
	}, []string{"from", "to"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})
)

// TrackRecompute returns a function that records one recompute of aggregate when
// called with its outcome.
func TrackRecompute(aggregate string) func(err error) {
	start := time.Now()
	return func(err error) {
		AggregateRecomputeTotal.WithLabelValues(aggregate).Inc()
		AggregateRecomputeDuration.WithLabelValues(aggregate).Observe(time.Since(start).Seconds())
		if err != nil {
			AggregateRecomputeFailures.WithLabelValues(aggregate).Inc()
		}
	}
}

// RecordTransition records a relationship moving between states. An empty state
// stands for "no record".
func RecordTransition(from, to string) {
	if from == "" {
		from = "absent"
	}
	if to == "" {
		to = "absent"
	}
	FriendshipTransitions.WithLabelValues(from, to).Inc()
}
