// Package observability exposes Prometheus instrumentation for the payout core.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Approval outcomes used as the "result" label.
const (
	ResultApproved     = "approved"
	ResultUnauthorized = "unauthorized"
	ResultInvalid      = "invalid"
	ResultNotEligible  = "not_eligible"
	ResultInsufficient = "insufficient_balance"
	ResultFailed       = "failed"
)

// PayoutApprovals counts approval attempts by outcome.
var PayoutApprovals = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "payollar",
	Subsystem: "payouts",
	Name:      "approvals_total",
	Help:      "Payout approval attempts by result.",
}, []string{"result"})

// PayoutApprovalDuration observes approval latency including the transaction.
var PayoutApprovalDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "payollar",
	Subsystem: "payouts",
	Name:      "approval_duration_seconds",
	Help:      "Payout approval latency.",
	Buckets:   prometheus.DefBuckets,
})

// CreditsPaidOut accumulates credits debited by approved payouts.
var CreditsPaidOut = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "payollar",
	Subsystem: "payouts",
	Name:      "credits_paid_out_total",
	Help:      "Credits debited from payee balances by approved payouts.",
})

// PayoutViewCacheLookups counts pending-payout view cache lookups by outcome.
var PayoutViewCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "payollar",
	Subsystem: "payouts",
	Name:      "view_cache_lookups_total",
	Help:      "Pending payout view cache lookups by outcome (hit, miss, error).",
}, []string{"outcome"})

// ObserveApproval records one approval attempt.
func ObserveApproval(result string, started time.Time) {
	PayoutApprovals.WithLabelValues(result).Inc()
	PayoutApprovalDuration.Observe(time.Since(started).Seconds())
}
