// Package metrics defines and registers all custom Prometheus metrics for the
// election API. It is the single source of truth for metric names, labels, and
// help strings. Metrics are registered on the default registry at init via
// promauto.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ballotworks/election-api/internal/core/domain"
)

const namespace = "election"

// ── Vote metrics ──────────────────────────────────────────────────────────────

// VotesTotal counts cast-vote attempts.
// Label:
//   - outcome: "accepted", or the domain error code of the rejection
//     (e.g. "already_voted", "election_not_active", "internal")
var VotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_total",
		Help:      "Total number of cast-vote attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Result metrics ────────────────────────────────────────────────────────────

// AggregationDuration measures a full result regeneration, transaction included.
// Label:
//   - outcome: "ok" or the domain error code
var AggregationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_duration_seconds",
		Help:      "Duration of result regeneration from vote scan to commit.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ResultCacheTotal counts published-result cache lookups.
// Label:
//   - result: "hit" or "miss"
var ResultCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "result_cache_total",
		Help:      "Total number of published-result cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditErrorsTotal counts audit events that could not be persisted or were dropped.
// Label:
//   - reason: "insert_failed", "queue_full" or "closed"
var AuditErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit events lost, by reason.",
	},
	[]string{"reason"},
)

// ObserveVote records the outcome of a cast-vote attempt.
func ObserveVote(err error) {
	VotesTotal.WithLabelValues(outcome(err, "accepted")).Inc()
}

// ObserveAggregation records the duration and outcome of a regeneration.
func ObserveAggregation(d time.Duration, err error) {
	AggregationDuration.WithLabelValues(outcome(err, "ok")).Observe(d.Seconds())
}

func outcome(err error, success string) string {
	if err == nil {
		return success
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "internal"
}
