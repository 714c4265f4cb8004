package engine

import (
	"errors"
)

// Fatal errors abort the whole run: they indicate malformed input rather
// than a business-rule violation.
var (
	// ErrMissingAmount is returned when a deposit or withdrawal record
	// carries no amount.
	ErrMissingAmount = errors.New("engine: record without required amount")

	// ErrUnknownKind is returned for a transaction kind outside the
	// deposit/withdrawal/dispute/resolve/chargeback set.
	ErrUnknownKind = errors.New("engine: unknown transaction kind")
)

// Rejections are per-record outcomes: the record is dropped, the ledger
// keeps its prior state, and processing continues with the next record.
var (
	// ErrAccountLocked rejects deposits and withdrawals on a locked account.
	ErrAccountLocked = errors.New("engine: account is locked")

	// ErrNonPositiveAmount rejects deposits and withdrawals whose amount
	// is zero or negative.
	ErrNonPositiveAmount = errors.New("engine: amount must be positive")

	// ErrInsufficientAvailable rejects withdrawals and disputes that exceed
	// the available balance.
	ErrInsufficientAvailable = errors.New("engine: insufficient available funds")

	// ErrInsufficientHeld rejects resolves that exceed the held balance.
	ErrInsufficientHeld = errors.New("engine: insufficient held funds")

	// ErrUnknownReference rejects dispute/resolve/chargeback records that
	// reference a transaction not present in the history.
	ErrUnknownReference = errors.New("engine: reference to unknown transaction")

	// ErrNotADeposit rejects chargebacks referencing a withdrawal; only
	// disputed deposits can be finalized by a chargeback.
	ErrNotADeposit = errors.New("engine: chargeback on a non-deposit transaction")
)

// IsFatal reports whether err must abort the run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrMissingAmount) || errors.Is(err, ErrUnknownKind)
}

// IsRejection reports whether err is a per-record rejection that leaves
// the ledger consistent and lets processing continue.
func IsRejection(err error) bool {
	switch {
	case errors.Is(err, ErrAccountLocked),
		errors.Is(err, ErrNonPositiveAmount),
		errors.Is(err, ErrInsufficientAvailable),
		errors.Is(err, ErrInsufficientHeld),
		errors.Is(err, ErrUnknownReference),
		errors.Is(err, ErrNotADeposit):
		return true
	}
	return false
}

// ClassifyError returns a stable label for the error, used for metric
// labels and warning fields.
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrMissingAmount):
		return "missing_amount"
	case errors.Is(err, ErrUnknownKind):
		return "unknown_kind"
	case errors.Is(err, ErrAccountLocked):
		return "account_locked"
	case errors.Is(err, ErrNonPositiveAmount):
		return "non_positive_amount"
	case errors.Is(err, ErrInsufficientAvailable):
		return "insufficient_available"
	case errors.Is(err, ErrInsufficientHeld):
		return "insufficient_held"
	case errors.Is(err, ErrUnknownReference):
		return "unknown_reference"
	case errors.Is(err, ErrNotADeposit):
		return "not_a_deposit"
	default:
		return "other"
	}
}
