// Package ledger is the per-client account store mutated by the
// transaction processor. It is a plain in-memory map: replay is strictly
// sequential and the ledger is exclusively owned for the duration of a
// run, so the store carries no locking of its own. Callers that expose a
// ledger to concurrent surfaces serialize access themselves.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Ledger maps client ids to their accounts. Accounts are created lazily
// on first reference and live for the rest of the run.
type Ledger struct {
	accounts map[ClientID]*Account
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{accounts: make(map[ClientID]*Account)}
}

// GetOrCreate returns the account for the given client, inserting a
// freshly zeroed, unlocked account if the client has not been seen.
func (l *Ledger) GetOrCreate(client ClientID) *Account {
	if a, ok := l.accounts[client]; ok {
		return a
	}
	a := &Account{
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
	}
	l.accounts[client] = a
	return a
}

// Get returns a copy of the account for the given client, if it exists.
// The copy keeps callers from mutating ledger state out of band.
func (l *Ledger) Get(client ClientID) (Account, bool) {
	a, ok := l.accounts[client]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

// Len returns the number of accounts in the ledger.
func (l *Ledger) Len() int {
	return len(l.accounts)
}

// Snapshot is the read-only view of one account emitted after a run.
type Snapshot struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Snapshot returns the final state of every account. The map itself has
// no order; snapshots are sorted by client id so output is deterministic
// (the order is not part of any contract downstream).
func (l *Ledger) Snapshot() []Snapshot {
	out := make([]Snapshot, 0, len(l.accounts))
	for client, a := range l.accounts {
		out = append(out, Snapshot{
			Client:    client,
			Available: a.Available,
			Held:      a.Held,
			Total:     a.Total,
			Locked:    a.Locked,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}
