package llm

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrCircuitOpen indicates the provider is cooling down after repeated
// failures.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// circuitBreaker opens after a run of consecutive failures and stays open
// for resetAfter.
type circuitBreaker struct {
	mu                  sync.Mutex
	threshold           int
	resetAfter          time.Duration
	consecutiveFailures int
	openUntil           time.Time
	logger              *zerolog.Logger
}

func newCircuitBreaker(threshold int, resetAfter time.Duration, logger *zerolog.Logger) *circuitBreaker {
	return &circuitBreaker{
		threshold:  threshold,
		resetAfter: resetAfter,
		logger:     logger,
	}
}

// Check returns an error while the circuit is open.
func (cb *circuitBreaker) Check() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if time.Now().Before(cb.openUntil) {
		return fmt.Errorf("%w until %v", ErrCircuitOpen, cb.openUntil)
	}

	return nil
}

func (cb *circuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures = 0
}

func (cb *circuitBreaker) RecordFailure(provider string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures++

	if cb.consecutiveFailures >= cb.threshold {
		cb.openUntil = time.Now().Add(cb.resetAfter)

		if cb.logger != nil {
			cb.logger.Warn().
				Str("provider", provider).
				Int("consecutive_failures", cb.consecutiveFailures).
				Time("open_until", cb.openUntil).
				Msg("llm circuit breaker opened")
		}
	}
}
