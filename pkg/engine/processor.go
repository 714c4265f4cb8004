// Package engine replays transaction records against a per-client ledger.
//
// The processor is a single-pass state machine: records are applied
// strictly in input order, each record's effect is atomic, and after
// every record the ledger satisfies total = available + held. Rejections
// (locked account, insufficient funds, unknown references) drop the
// record and continue; malformed records (missing amount, unknown kind)
// abort the run.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"payments-engine/pkg/ledger"
	"payments-engine/pkg/logging"
	"payments-engine/pkg/metrics"
)

// Processor owns a ledger and a transaction history for the duration of
// a run and applies records to them one at a time.
type Processor struct {
	ledger  *ledger.Ledger
	history *History
	logger  *logging.Logger
	metrics metrics.Collector
}

// Config holds processor configuration. Zero values fall back to the
// global logger, a no-op collector and the default history sizing.
type Config struct {
	Logger  *logging.Logger
	Metrics metrics.Collector
	History HistoryConfig
}

// NewProcessor creates a processor with a fresh ledger and history.
func NewProcessor(config Config) *Processor {
	logger := config.Logger
	if logger == nil {
		logger = logging.Global().Named("engine")
	}
	collector := config.Metrics
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	if config.History.ExpectedEntries == 0 {
		config.History = DefaultHistoryConfig()
	}
	return &Processor{
		ledger:  ledger.New(),
		history: NewHistory(config.History),
		logger:  logger,
		metrics: collector,
	}
}

// Ledger returns the processor's ledger.
func (p *Processor) Ledger() *ledger.Ledger {
	return p.ledger
}

// History returns the processor's transaction history.
func (p *Processor) History() *History {
	return p.history
}

// Apply applies a single record. It returns nil when the record was
// applied, a rejection error (see IsRejection) when a business rule
// dropped it, and a fatal error when the record is malformed. The ledger
// is never left partially updated.
func (p *Processor) Apply(tx Transaction) error {
	start := time.Now()
	err := p.apply(tx)
	duration := time.Since(start)

	kind := string(tx.Kind)
	switch {
	case err == nil:
		p.metrics.RecordApply(kind, metrics.OutcomeApplied, duration)
	case IsRejection(err):
		p.metrics.RecordApply(kind, metrics.OutcomeRejected, duration)
		p.metrics.RecordRejection(kind, ClassifyError(err))
	default:
		p.metrics.RecordApply(kind, metrics.OutcomeFailed, duration)
	}
	return err
}

func (p *Processor) apply(tx Transaction) error {
	// The account is materialized before dispatch: even a record that
	// ends up rejected leaves a zeroed account behind, matching the
	// lazy-creation contract.
	acct := p.ledger.GetOrCreate(tx.Client)

	switch tx.Kind {
	case Deposit:
		return p.applyDeposit(acct, tx)
	case Withdrawal:
		return p.applyWithdrawal(acct, tx)
	case Dispute:
		return p.applyDispute(acct, tx)
	case Resolve:
		return p.applyResolve(acct, tx)
	case Chargeback:
		return p.applyChargeback(acct, tx)
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, string(tx.Kind))
	}
}

// requireAmount returns the record's amount normalized to Scale digits.
// The missing-amount check runs before any business rule: a deposit or
// withdrawal without an amount is malformed input, not a rejection.
func requireAmount(tx Transaction) (decimal.Decimal, error) {
	if tx.Amount == nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s tx %d", ErrMissingAmount, tx.Kind, tx.TX)
	}
	return Normalize(*tx.Amount), nil
}

func (p *Processor) applyDeposit(acct *ledger.Account, tx Transaction) error {
	amount, err := requireAmount(tx)
	if err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: deposit of %s to client %d", ErrNonPositiveAmount, amount, tx.Client)
	}
	if acct.Locked {
		return fmt.Errorf("%w: cannot deposit to client %d", ErrAccountLocked, tx.Client)
	}
	acct.Credit(amount)
	p.history.Record(Entry{TX: tx.TX, Kind: tx.Kind, Client: tx.Client, Amount: amount})
	return nil
}

func (p *Processor) applyWithdrawal(acct *ledger.Account, tx Transaction) error {
	amount, err := requireAmount(tx)
	if err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: withdrawal of %s from client %d", ErrNonPositiveAmount, amount, tx.Client)
	}
	if acct.Locked {
		return fmt.Errorf("%w: cannot withdraw from client %d", ErrAccountLocked, tx.Client)
	}
	if acct.Available.LessThan(amount) {
		return fmt.Errorf("%w: withdrawal of %s from client %d", ErrInsufficientAvailable, amount, tx.Client)
	}
	acct.Debit(amount)
	p.history.Record(Entry{TX: tx.TX, Kind: tx.Kind, Client: tx.Client, Amount: amount})
	return nil
}

func (p *Processor) applyDispute(acct *ledger.Account, tx Transaction) error {
	entry, ok := p.history.Lookup(tx.TX)
	if !ok {
		return fmt.Errorf("%w: dispute of tx %d", ErrUnknownReference, tx.TX)
	}
	// More than the available balance cannot move into hold. A second
	// dispute on a tx already held shifts the same amount again, subject
	// to this check; that is retained historical behavior.
	if acct.Available.LessThan(entry.Amount) {
		return fmt.Errorf("%w: dispute of tx %d for %s", ErrInsufficientAvailable, tx.TX, entry.Amount)
	}
	acct.Hold(entry.Amount)
	return nil
}

func (p *Processor) applyResolve(acct *ledger.Account, tx Transaction) error {
	entry, ok := p.history.Lookup(tx.TX)
	if !ok {
		return fmt.Errorf("%w: resolve of tx %d", ErrUnknownReference, tx.TX)
	}
	if acct.Held.LessThan(entry.Amount) {
		return fmt.Errorf("%w: resolve of tx %d for %s", ErrInsufficientHeld, tx.TX, entry.Amount)
	}
	acct.Release(entry.Amount)
	return nil
}

func (p *Processor) applyChargeback(acct *ledger.Account, tx Transaction) error {
	// Removing the entry up front is what prevents a second chargeback
	// on the same transaction.
	entry, ok := p.history.Remove(tx.TX)
	if !ok {
		return fmt.Errorf("%w: chargeback of tx %d", ErrUnknownReference, tx.TX)
	}
	if entry.Kind != Deposit {
		// Only disputed deposits can be finalized; put the entry back
		// untouched so it can still be resolved.
		p.history.Record(entry)
		return fmt.Errorf("%w: chargeback of tx %d", ErrNotADeposit, tx.TX)
	}
	acct.Chargeback(entry.Amount)
	return nil
}

// Process folds Apply over the source until io.EOF. Rejections are
// logged as warnings on the side channel and processing continues; the
// first fatal error, source error or context cancellation stops the run.
// A prefix application always leaves a consistent ledger, so state up to
// the stopping point remains valid.
func (p *Processor) Process(ctx context.Context, source RecordSource) error {
	start := time.Now()
	records := 0

	fail := func(err error) error {
		p.metrics.RecordRun(records, time.Since(start), true)
		return err
	}

	for {
		tx, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(fmt.Errorf("engine: reading record: %w", err))
		}
		records++

		if err := p.Apply(tx); err != nil {
			if !IsRejection(err) {
				return fail(err)
			}
			p.logger.Warn("transaction rejected",
				zap.String("kind", string(tx.Kind)),
				zap.Uint16("client", uint16(tx.Client)),
				zap.Uint32("tx", uint32(tx.TX)),
				zap.String("reason", ClassifyError(err)),
				zap.Error(err),
			)
		}
	}

	p.metrics.RecordRun(records, time.Since(start), false)
	p.metrics.SetAccounts(p.ledger.Len())
	p.metrics.SetHistorySize(p.history.Len())
	return nil
}

// Replay runs a fresh processor over the source and returns the final
// ledger. It is the whole pipeline in one call: callers emit snapshots
// from the returned ledger.
func Replay(ctx context.Context, source RecordSource, config Config) (*ledger.Ledger, error) {
	p := NewProcessor(config)
	if err := p.Process(ctx, source); err != nil {
		return nil, err
	}
	return p.Ledger(), nil
}
