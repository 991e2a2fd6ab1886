package canvas

import (
	"errors"
	"sync"
	"time"
)

// BreakerState represents the current state of a reload circuit breaker.
type BreakerState int

const (
	// BreakerClosed indicates reloads are flowing normally.
	BreakerClosed BreakerState = iota
	// BreakerOpen indicates reloads are being rejected after repeated
	// failures.
	BreakerOpen
	// BreakerHalfOpen indicates a single probe reload is allowed to test
	// whether the script has been fixed.
	BreakerHalfOpen
)

// String returns the string representation of the breaker state.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned when the reload breaker is open and
// rejecting reload attempts.
var ErrBreakerOpen = errors.New("reload circuit breaker is open")

// BreakerConfig configures the reload circuit breaker. A script that is
// being edited live can fail to compile on every save; the breaker stops
// the reload path from hammering the Lua runtime with a known-bad script
// while still probing for a fix after a cooldown.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive reload failures
	// before the breaker opens. Default: 3.
	FailureThreshold int

	// SuccessThreshold is the number of consecutive probe successes in
	// half-open state required to close the breaker again. Default: 1.
	SuccessThreshold int

	// Cooldown is how long the breaker stays open before allowing a
	// probe reload. Default: 5 seconds.
	Cooldown time.Duration

	// OnStateChange, if set, is called with the old and new state on
	// every transition.
	OnStateChange func(from, to BreakerState)
}

// DefaultBreakerConfig returns a BreakerConfig tuned for interactive
// script editing: open quickly, probe again after a short pause.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		Cooldown:         5 * time.Second,
	}
}

// ReloadBreaker implements a circuit breaker around script reload
// attempts. While open, Execute rejects calls with ErrBreakerOpen; after
// the cooldown a single probe is let through at a time.
type ReloadBreaker struct {
	config BreakerConfig

	mu          sync.RWMutex
	state       BreakerState
	failures    int
	successes   int
	lastFailure time.Time
	probing     bool

	totalFailures   int64
	totalSuccesses  int64
	totalRejections int64
}

// NewReloadBreaker creates a reload breaker, applying defaults for zero
// config values.
func NewReloadBreaker(config BreakerConfig) *ReloadBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 3
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 5 * time.Second
	}
	return &ReloadBreaker{
		config: config,
		state:  BreakerClosed,
	}
}

// Execute runs fn through the breaker. If the breaker is open it
// returns ErrBreakerOpen without calling fn; otherwise fn's result is
// recorded and returned.
func (rb *ReloadBreaker) Execute(fn func() error) error {
	if !rb.allow() {
		rb.mu.Lock()
		rb.totalRejections++
		rb.mu.Unlock()
		return ErrBreakerOpen
	}

	err := fn()
	rb.record(err)
	return err
}

// State returns the effective breaker state. An open breaker whose
// cooldown has elapsed reports half-open.
func (rb *ReloadBreaker) State() BreakerState {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if rb.state == BreakerOpen && time.Since(rb.lastFailure) >= rb.config.Cooldown {
		return BreakerHalfOpen
	}
	return rb.state
}

// BreakerStats is a snapshot of reload breaker counters.
type BreakerStats struct {
	// State is the effective breaker state at snapshot time.
	State BreakerState
	// ConsecutiveFailures is the failure count in the current window.
	ConsecutiveFailures int
	// TotalSuccesses counts all successful reloads.
	TotalSuccesses int64
	// TotalFailures counts all failed reloads.
	TotalFailures int64
	// TotalRejections counts reloads rejected while the breaker was open.
	TotalRejections int64
	// LastFailure is the time of the most recent failure.
	LastFailure time.Time
}

// Stats returns a snapshot of the breaker counters.
func (rb *ReloadBreaker) Stats() BreakerStats {
	state := rb.State()

	rb.mu.RLock()
	defer rb.mu.RUnlock()

	return BreakerStats{
		State:               state,
		ConsecutiveFailures: rb.failures,
		TotalSuccesses:      rb.totalSuccesses,
		TotalFailures:       rb.totalFailures,
		TotalRejections:     rb.totalRejections,
		LastFailure:         rb.lastFailure,
	}
}

// Reset forces the breaker back to closed and clears window counters.
func (rb *ReloadBreaker) Reset() {
	rb.mu.Lock()
	old := rb.state
	rb.state = BreakerClosed
	rb.failures = 0
	rb.successes = 0
	rb.probing = false
	rb.mu.Unlock()

	if old != BreakerClosed && rb.config.OnStateChange != nil {
		rb.config.OnStateChange(old, BreakerClosed)
	}
}

// allow decides whether a reload attempt may proceed.
func (rb *ReloadBreaker) allow() bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	switch rb.state {
	case BreakerClosed:
		return true

	case BreakerOpen:
		if time.Since(rb.lastFailure) >= rb.config.Cooldown {
			rb.transitionTo(BreakerHalfOpen)
			rb.probing = true
			return true
		}
		return false

	case BreakerHalfOpen:
		// One probe at a time.
		if !rb.probing {
			rb.probing = true
			return true
		}
		return false

	default:
		return false
	}
}

// record applies a reload result to the state machine.
func (rb *ReloadBreaker) record(err error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.probing = false

	if err != nil {
		rb.totalFailures++
		rb.lastFailure = time.Now()
		switch rb.state {
		case BreakerClosed:
			rb.failures++
			if rb.failures >= rb.config.FailureThreshold {
				rb.transitionTo(BreakerOpen)
			}
		case BreakerHalfOpen:
			// A failed probe reopens the breaker.
			rb.successes = 0
			rb.transitionTo(BreakerOpen)
		}
		return
	}

	rb.totalSuccesses++
	switch rb.state {
	case BreakerClosed:
		rb.failures = 0
	case BreakerHalfOpen:
		rb.successes++
		if rb.successes >= rb.config.SuccessThreshold {
			rb.failures = 0
			rb.successes = 0
			rb.transitionTo(BreakerClosed)
		}
	}
}

// transitionTo changes the state and fires the callback. Callers hold
// the mutex; the callback runs on its own goroutine to avoid deadlocks.
func (rb *ReloadBreaker) transitionTo(newState BreakerState) {
	if rb.state == newState {
		return
	}
	old := rb.state
	rb.state = newState

	if rb.config.OnStateChange != nil {
		go rb.config.OnStateChange(old, newState)
	}
}
