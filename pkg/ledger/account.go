package ledger

import (
	"github.com/shopspring/decimal"
)

// ClientID identifies a client account. The input domain is a 16-bit id.
type ClientID uint16

// Account holds the balances for a single client.
// The invariant Total = Available + Held holds after every applied record;
// the chargeback path is the one place Held and Total may go negative.
type Account struct {
	// Available is the balance usable for withdrawals and disputes.
	Available decimal.Decimal

	// Held is the balance frozen pending dispute resolution.
	Held decimal.Decimal

	// Total is Available + Held, maintained alongside both.
	Total decimal.Decimal

	// Locked is set by a chargeback. A locked account rejects further
	// deposits and withdrawals; dispute bookkeeping stays permitted.
	Locked bool
}

// Credit adds amount to the available and total balances.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
	a.Total = a.Total.Add(amount)
}

// Debit removes amount from the available and total balances.
func (a *Account) Debit(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.Total = a.Total.Sub(amount)
}

// Hold moves amount from available to held. Total is unchanged.
func (a *Account) Hold(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
}

// Release moves amount from held back to available. Total is unchanged.
func (a *Account) Release(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
}

// Chargeback forfeits amount out of held funds and locks the account.
// If the amount is no longer fully held this drives Held and Total
// negative; that matches the historical engine behavior and is kept as-is.
func (a *Account) Chargeback(amount decimal.Decimal) {
	a.Locked = true
	a.Held = a.Held.Sub(amount)
	a.Total = a.Total.Sub(amount)
}
