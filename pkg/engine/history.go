package engine

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/shopspring/decimal"

	"payments-engine/pkg/ledger"
)

// Entry is a retained copy of an accepted deposit or withdrawal. Entries
// are the only transactions a dispute/resolve/chargeback can reference.
type Entry struct {
	TX     TxID
	Kind   Kind
	Client ledger.ClientID
	Amount decimal.Decimal
}

// History retains accepted deposits and withdrawals keyed by tx id.
//
// A bloom filter fronts the map so lookups for references that were never
// recorded are rejected without probing the map. The filter cannot forget,
// so after a chargeback removes an entry it may still answer "maybe"; the
// map stays authoritative and such hits are counted as false positives.
// Like the ledger, the history is exclusively owned during a run and is
// not synchronized.
type History struct {
	entries map[TxID]Entry
	filter  *bloom.BloomFilter

	queries        uint64
	filterRejected uint64
	falsePositives uint64
}

// HistoryConfig sizes the bloom filter.
type HistoryConfig struct {
	// ExpectedEntries is the expected number of retained transactions.
	ExpectedEntries uint

	// FalsePositiveRate is the target bloom false-positive rate.
	FalsePositiveRate float64
}

// DefaultHistoryConfig returns the default history sizing.
func DefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		ExpectedEntries:   100000,
		FalsePositiveRate: 0.01,
	}
}

// NewHistory creates an empty transaction history.
func NewHistory(config HistoryConfig) *History {
	if config.ExpectedEntries == 0 {
		config.ExpectedEntries = 100000
	}
	if config.FalsePositiveRate <= 0 || config.FalsePositiveRate >= 1 {
		config.FalsePositiveRate = 0.01
	}
	return &History{
		entries: make(map[TxID]Entry),
		filter:  bloom.NewWithEstimates(config.ExpectedEntries, config.FalsePositiveRate),
	}
}

func txKey(id TxID) []byte {
	var key [4]byte
	binary.BigEndian.PutUint32(key[:], uint32(id))
	return key[:]
}

// Record stores or overwrites the entry for its tx id.
func (h *History) Record(e Entry) {
	h.filter.Add(txKey(e.TX))
	h.entries[e.TX] = e
}

// Lookup fetches the entry for the given tx id. Absence is a valid,
// non-error outcome.
func (h *History) Lookup(id TxID) (Entry, bool) {
	h.queries++
	if !h.filter.Test(txKey(id)) {
		h.filterRejected++
		return Entry{}, false
	}
	e, ok := h.entries[id]
	if !ok {
		h.falsePositives++
	}
	return e, ok
}

// Remove takes the entry for the given tx id out of the history. Used
// only by chargeback, so the same transaction cannot be charged back twice.
func (h *History) Remove(id TxID) (Entry, bool) {
	e, ok := h.Lookup(id)
	if !ok {
		return Entry{}, false
	}
	delete(h.entries, id)
	return e, ok
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	return len(h.entries)
}

// HistoryStats reports bloom filter effectiveness.
type HistoryStats struct {
	Entries        int     `json:"entries"`
	Queries        uint64  `json:"queries"`
	FilterRejected uint64  `json:"filter_rejected"`
	FalsePositives uint64  `json:"false_positives"`
	RejectionRate  float64 `json:"rejection_rate"`
}

// Stats returns statistics about the history and its bloom filter.
func (h *History) Stats() HistoryStats {
	s := HistoryStats{
		Entries:        len(h.entries),
		Queries:        h.queries,
		FilterRejected: h.filterRejected,
		FalsePositives: h.falsePositives,
	}
	if h.queries > 0 {
		s.RejectionRate = float64(h.filterRejected) / float64(h.queries)
	}
	return s
}
