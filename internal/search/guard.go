package search

import (
	"time"

	"outofschool/internal/errors"
	"outofschool/internal/logger"
	"outofschool/internal/metrics"

	"github.com/sony/gobreaker"
)

// Guard is a circuit breaker around a backend. Only storage failures trip
// it; invalid input and cancelled requests count as successes.
type Guard struct {
	cb *gobreaker.CircuitBreaker
}

// NewGuard opens the breaker after failures consecutive storage errors and
// probes again after timeout.
func NewGuard(name string, failures uint32, timeout time.Duration, m *metrics.Metrics) *Guard {
	if failures == 0 {
		failures = 1
	}
	m.SetBreakerState(name, int(gobreaker.StateClosed))

	return &Guard{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.IsStorage(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logger.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
			m.SetBreakerState(name, int(to))
		},
	})}
}

// Do runs fn unless the breaker is open. A nil Guard always runs fn.
func (g *Guard) Do(fn func() error) error {
	if g == nil {
		return fn()
	}

	_, err := g.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.StorageFailed(g.cb.Name(), err).WithContext("breaker", g.cb.State().String())
	}
	return err
}

// State returns the breaker state name
func (g *Guard) State() string {
	if g == nil {
		return gobreaker.StateClosed.String()
	}
	return g.cb.State().String()
}
