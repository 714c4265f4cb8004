package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestHistory_RecordLookup(t *testing.T) {
	h := NewHistory(DefaultHistoryConfig())

	if _, ok := h.Lookup(1); ok {
		t.Error("expected no entry for tx 1")
	}

	h.Record(Entry{TX: 1, Kind: Deposit, Client: 9, Amount: decimal.RequireFromString("2.5")})
	e, ok := h.Lookup(1)
	if !ok {
		t.Fatal("expected entry for tx 1")
	}
	if e.Kind != Deposit || e.Client != 9 || !e.Amount.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("unexpected entry: %+v", e)
	}

	// Overwrite keeps a single entry
	h.Record(Entry{TX: 1, Kind: Deposit, Client: 9, Amount: decimal.RequireFromString("3.0")})
	if h.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", h.Len())
	}
	e, _ = h.Lookup(1)
	if !e.Amount.Equal(decimal.RequireFromString("3.0")) {
		t.Errorf("expected overwritten amount, got %s", e.Amount)
	}
}

func TestHistory_Remove(t *testing.T) {
	h := NewHistory(DefaultHistoryConfig())
	h.Record(Entry{TX: 4, Kind: Withdrawal, Client: 2, Amount: decimal.RequireFromString("1")})

	e, ok := h.Remove(4)
	if !ok || e.TX != 4 {
		t.Fatalf("expected to remove tx 4, got ok=%v entry=%+v", ok, e)
	}
	if h.Len() != 0 {
		t.Errorf("expected empty history, got %d entries", h.Len())
	}

	// Second removal finds nothing; the filter may still answer maybe
	// but the map is authoritative.
	if _, ok := h.Remove(4); ok {
		t.Error("expected second removal to find nothing")
	}
}

func TestHistory_FilterStats(t *testing.T) {
	h := NewHistory(HistoryConfig{ExpectedEntries: 100, FalsePositiveRate: 0.01})
	h.Record(Entry{TX: 1, Kind: Deposit, Client: 1, Amount: decimal.RequireFromString("1")})

	// Never-recorded ids are overwhelmingly rejected by the filter
	// without a map probe.
	for id := TxID(1000); id < 1100; id++ {
		if _, ok := h.Lookup(id); ok {
			t.Fatalf("unexpected hit for tx %d", id)
		}
	}

	stats := h.Stats()
	if stats.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", stats.Entries)
	}
	if stats.Queries != 100 {
		t.Errorf("expected 100 queries, got %d", stats.Queries)
	}
	if stats.FilterRejected == 0 {
		t.Error("expected the filter to reject some lookups")
	}
	if stats.FilterRejected+stats.FalsePositives != stats.Queries {
		t.Errorf("stats do not add up: %+v", stats)
	}
}
