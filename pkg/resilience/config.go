package resilience

import "time"

// Counts mirrors the circuit breaker's internal counters for use in
// custom trip functions.
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// CircuitBreakerConfig configures the circuit breaker around a source.
type CircuitBreakerConfig struct {
	// MaxRequests is the number of probe reads allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period for clearing counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// ReadyToTrip decides when the breaker opens. Nil means trip after
	// five consecutive failures.
	ReadyToTrip func(counts Counts) bool
}

// SourceConfig configures a ResilientSource.
type SourceConfig struct {
	// Timeout bounds a single read from the underlying source.
	// Zero disables the per-read timeout.
	Timeout time.Duration

	// CircuitBreakerConfig configures the breaker.
	CircuitBreakerConfig CircuitBreakerConfig
}

// DefaultSourceConfig returns a configuration suitable for a remote
// record feed.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Timeout: 5 * time.Second,
		CircuitBreakerConfig: CircuitBreakerConfig{
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
		},
	}
}

// WithTimeout returns a copy of the config with the given read timeout.
func (c SourceConfig) WithTimeout(timeout time.Duration) SourceConfig {
	c.Timeout = timeout
	return c
}
