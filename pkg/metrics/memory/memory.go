package memory

import (
	"sync"
	"time"

	"payments-engine/pkg/metrics"
)

// MemoryCollector implements Collector in memory, for tests and for the
// API's JSON metrics endpoint.
type MemoryCollector struct {
	mu sync.RWMutex

	// Per-kind metrics
	kindMetrics map[string]*KindMetrics

	// Run-level metrics
	runs             int64
	failedRuns       int64
	recordsProcessed int64
	runDurations     []time.Duration

	// Gauges
	accounts    int
	historySize int
}

// KindMetrics holds metrics for a single transaction kind.
type KindMetrics struct {
	Applied  int64
	Rejected int64
	Failed   int64

	// Rejections by reason label
	RejectionsByReason map[string]int64

	// Apply latencies (simple stats)
	ApplyLatencies []time.Duration
}

// NewMemoryCollector creates a new in-memory metrics collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{
		kindMetrics: make(map[string]*KindMetrics),
	}
}

// getOrCreateKind returns the KindMetrics for the given kind, creating it
// if needed. Callers must hold mu.
func (mc *MemoryCollector) getOrCreateKind(kind string) *KindMetrics {
	if _, exists := mc.kindMetrics[kind]; !exists {
		mc.kindMetrics[kind] = &KindMetrics{
			RejectionsByReason: make(map[string]int64),
		}
	}
	return mc.kindMetrics[kind]
}

// RecordApply records the outcome of applying one record.
func (mc *MemoryCollector) RecordApply(kind string, outcome metrics.Outcome, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	km := mc.getOrCreateKind(kind)
	switch outcome {
	case metrics.OutcomeApplied:
		km.Applied++
	case metrics.OutcomeRejected:
		km.Rejected++
	case metrics.OutcomeFailed:
		km.Failed++
	}
	km.ApplyLatencies = append(km.ApplyLatencies, duration)
}

// RecordRejection records a per-record rejection by reason.
func (mc *MemoryCollector) RecordRejection(kind string, reason string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	km := mc.getOrCreateKind(kind)
	km.RejectionsByReason[reason]++
}

// RecordRun records a completed or aborted replay run.
func (mc *MemoryCollector) RecordRun(records int, duration time.Duration, failed bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.runs++
	if failed {
		mc.failedRuns++
	}
	mc.recordsProcessed += int64(records)
	mc.runDurations = append(mc.runDurations, duration)
}

// SetAccounts records the current number of ledger accounts.
func (mc *MemoryCollector) SetAccounts(n int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.accounts = n
}

// SetHistorySize records the current number of retained transactions.
func (mc *MemoryCollector) SetHistorySize(n int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.historySize = n
}

// Snapshot is a point-in-time copy of the collected metrics.
type Snapshot struct {
	Kinds            map[string]KindSnapshot `json:"kinds"`
	Runs             int64                   `json:"runs"`
	FailedRuns       int64                   `json:"failed_runs"`
	RecordsProcessed int64                   `json:"records_processed"`
	Accounts         int                     `json:"accounts"`
	HistorySize      int                     `json:"history_size"`
}

// KindSnapshot is the per-kind portion of a Snapshot.
type KindSnapshot struct {
	Applied            int64            `json:"applied"`
	Rejected           int64            `json:"rejected"`
	Failed             int64            `json:"failed"`
	RejectionsByReason map[string]int64 `json:"rejections_by_reason"`
}

// Snapshot returns a copy of the current metrics.
func (mc *MemoryCollector) Snapshot() Snapshot {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	s := Snapshot{
		Kinds:            make(map[string]KindSnapshot, len(mc.kindMetrics)),
		Runs:             mc.runs,
		FailedRuns:       mc.failedRuns,
		RecordsProcessed: mc.recordsProcessed,
		Accounts:         mc.accounts,
		HistorySize:      mc.historySize,
	}
	for kind, km := range mc.kindMetrics {
		reasons := make(map[string]int64, len(km.RejectionsByReason))
		for reason, n := range km.RejectionsByReason {
			reasons[reason] = n
		}
		s.Kinds[kind] = KindSnapshot{
			Applied:            km.Applied,
			Rejected:           km.Rejected,
			Failed:             km.Failed,
			RejectionsByReason: reasons,
		}
	}
	return s
}

// Kind returns the metrics collected for a single transaction kind.
func (mc *MemoryCollector) Kind(kind string) KindMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	km, ok := mc.kindMetrics[kind]
	if !ok {
		return KindMetrics{RejectionsByReason: map[string]int64{}}
	}
	cp := *km
	cp.RejectionsByReason = make(map[string]int64, len(km.RejectionsByReason))
	for reason, n := range km.RejectionsByReason {
		cp.RejectionsByReason[reason] = n
	}
	cp.ApplyLatencies = append([]time.Duration(nil), km.ApplyLatencies...)
	return cp
}
