// Package resilience protects a replay run from an unreliable record
// source. A source served over a network (rather than a local file) can
// stall or fail repeatedly; the wrapper bounds each read with a timeout
// and trips a circuit breaker so the run aborts fast instead of grinding
// through a dead transport. Aborting mid-sequence is safe: the engine
// guarantees a prefix application leaves a consistent ledger.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"payments-engine/pkg/engine"
	"payments-engine/pkg/logging"
)

// ErrSourceUnavailable is returned once the circuit breaker is open.
// It surfaces to the engine as a fatal source error.
var ErrSourceUnavailable = errors.New("resilience: record source unavailable")

// ResilientSource wraps a RecordSource with timeout and circuit breaker
// protection.
type ResilientSource struct {
	source  engine.RecordSource
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *logging.Logger
}

// NewResilientSource wraps the given source with resilience protection.
func NewResilientSource(source engine.RecordSource, config SourceConfig) *ResilientSource {
	logger := logging.Global().Named("resilience")

	rs := &ResilientSource{
		source:  source,
		timeout: config.Timeout,
		logger:  logger,
	}

	settings := gobreaker.Settings{
		Name:        "record-source",
		MaxRequests: config.CircuitBreakerConfig.MaxRequests,
		Interval:    config.CircuitBreakerConfig.Interval,
		Timeout:     config.CircuitBreakerConfig.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if config.CircuitBreakerConfig.ReadyToTrip != nil {
				return config.CircuitBreakerConfig.ReadyToTrip(Counts{
					Requests:             counts.Requests,
					TotalSuccesses:       counts.TotalSuccesses,
					TotalFailures:        counts.TotalFailures,
					ConsecutiveSuccesses: counts.ConsecutiveSuccesses,
					ConsecutiveFailures:  counts.ConsecutiveFailures,
				})
			}
			// Default: trip after 5 consecutive failures
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("source", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	rs.cb = gobreaker.NewCircuitBreaker(settings)

	return rs
}

// Next reads the next record with timeout and circuit breaker
// protection. End of input (io.EOF) never counts as a failure.
func (rs *ResilientSource) Next(ctx context.Context) (engine.Transaction, error) {
	if rs.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rs.timeout)
		defer cancel()
	}

	var (
		tx  engine.Transaction
		eof bool
	)
	_, err := rs.cb.Execute(func() (interface{}, error) {
		next, err := rs.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			eof = true
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		tx = next
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return engine.Transaction{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		return engine.Transaction{}, err
	}
	if eof {
		return engine.Transaction{}, io.EOF
	}
	return tx, nil
}
