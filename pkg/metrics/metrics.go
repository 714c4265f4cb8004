package metrics

import (
	"time"
)

// Outcome is the result of applying one transaction record.
type Outcome string

const (
	// OutcomeApplied means the record mutated the ledger.
	OutcomeApplied Outcome = "applied"
	// OutcomeRejected means the record was dropped by a business rule.
	OutcomeRejected Outcome = "rejected"
	// OutcomeFailed means the record was fatally malformed.
	OutcomeFailed Outcome = "failed"
)

// Collector defines the interface for collecting engine metrics.
// Implementations can export metrics to various backends (Prometheus,
// in-memory for tests and inspection).
type Collector interface {
	// RecordApply records the outcome of applying one record.
	RecordApply(kind string, outcome Outcome, duration time.Duration)

	// RecordRejection records a per-record rejection by reason.
	RecordRejection(kind string, reason string)

	// RecordRun records a completed or aborted replay run.
	RecordRun(records int, duration time.Duration, failed bool)

	// SetAccounts records the current number of ledger accounts.
	SetAccounts(n int)

	// SetHistorySize records the current number of retained transactions.
	SetHistorySize(n int)
}

// NoOpCollector is a no-op implementation of Collector.
// It's used as the default collector when metrics are not needed.
type NoOpCollector struct{}

// RecordApply does nothing.
func (NoOpCollector) RecordApply(kind string, outcome Outcome, duration time.Duration) {}

// RecordRejection does nothing.
func (NoOpCollector) RecordRejection(kind string, reason string) {}

// RecordRun does nothing.
func (NoOpCollector) RecordRun(records int, duration time.Duration, failed bool) {}

// SetAccounts does nothing.
func (NoOpCollector) SetAccounts(n int) {}

// SetHistorySize does nothing.
func (NoOpCollector) SetHistorySize(n int) {}
