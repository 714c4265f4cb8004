package memory

import (
	"testing"
	"time"

	"payments-engine/pkg/metrics"
)

func TestMemoryCollector_RecordApply(t *testing.T) {
	mc := NewMemoryCollector()

	mc.RecordApply("deposit", metrics.OutcomeApplied, time.Microsecond)
	mc.RecordApply("deposit", metrics.OutcomeApplied, time.Microsecond)
	mc.RecordApply("withdrawal", metrics.OutcomeRejected, time.Microsecond)
	mc.RecordRejection("withdrawal", "insufficient_available")

	deposit := mc.Kind("deposit")
	if deposit.Applied != 2 {
		t.Errorf("expected 2 applied deposits, got %d", deposit.Applied)
	}
	if len(deposit.ApplyLatencies) != 2 {
		t.Errorf("expected 2 latencies, got %d", len(deposit.ApplyLatencies))
	}

	withdrawal := mc.Kind("withdrawal")
	if withdrawal.Rejected != 1 {
		t.Errorf("expected 1 rejected withdrawal, got %d", withdrawal.Rejected)
	}
	if withdrawal.RejectionsByReason["insufficient_available"] != 1 {
		t.Errorf("expected rejection reason count, got %v", withdrawal.RejectionsByReason)
	}
}

func TestMemoryCollector_Snapshot(t *testing.T) {
	mc := NewMemoryCollector()

	mc.RecordApply("deposit", metrics.OutcomeApplied, time.Microsecond)
	mc.RecordRun(10, time.Millisecond, false)
	mc.RecordRun(3, time.Millisecond, true)
	mc.SetAccounts(4)
	mc.SetHistorySize(9)

	snap := mc.Snapshot()
	if snap.Runs != 2 || snap.FailedRuns != 1 {
		t.Errorf("runs=%d failed=%d", snap.Runs, snap.FailedRuns)
	}
	if snap.RecordsProcessed != 13 {
		t.Errorf("expected 13 records, got %d", snap.RecordsProcessed)
	}
	if snap.Accounts != 4 || snap.HistorySize != 9 {
		t.Errorf("accounts=%d history=%d", snap.Accounts, snap.HistorySize)
	}

	// The snapshot is a copy.
	snap.Kinds["deposit"].RejectionsByReason["x"] = 1
	if mc.Kind("deposit").RejectionsByReason["x"] != 0 {
		t.Error("snapshot must not alias internal state")
	}
}

func TestMemoryCollector_UnknownKind(t *testing.T) {
	mc := NewMemoryCollector()
	km := mc.Kind("never-seen")
	if km.Applied != 0 || km.RejectionsByReason == nil {
		t.Errorf("unexpected zero value: %+v", km)
	}
}
