package engine

import (
	"github.com/shopspring/decimal"

	"payments-engine/pkg/ledger"
)

// TxID identifies a deposit or withdrawal. Dispute, resolve and
// chargeback records reference an existing TxID instead of minting one.
type TxID uint32

// Kind is the transaction type carried by an input record.
type Kind string

const (
	Deposit    Kind = "deposit"
	Withdrawal Kind = "withdrawal"
	Dispute    Kind = "dispute"
	Resolve    Kind = "resolve"
	Chargeback Kind = "chargeback"
)

// Scale is the number of fractional digits amounts are normalized to.
const Scale = 4

// Transaction is one immutable input record. Amount is present only on
// deposits and withdrawals.
type Transaction struct {
	Kind   Kind             `json:"type"`
	Client ledger.ClientID  `json:"client"`
	TX     TxID             `json:"tx"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// Normalize rounds an amount to Scale fractional digits, rounding half
// away from zero. This mirrors the fixed-point contract of the input
// format; every amount is normalized once, on acceptance.
func Normalize(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Scale)
}
