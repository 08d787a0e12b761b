package blob

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Breaker defaults, used when no open-state timeout is configured.
const (
	DefaultBreakerTimeout = 60 * time.Second
	breakerMaxRequests    = 1
	breakerInterval       = 30 * time.Second
	breakerMinRequests    = 3
	breakerFailureRatio   = 0.6
)

// GuardedSink stops calling a failing sink once its circuit breaker opens.
// Calls made while the breaker is open fail with gobreaker.ErrOpenState.
type GuardedSink struct {
	next    Sink
	breaker *gobreaker.CircuitBreaker
}

// NewGuardedSink wraps next in a circuit breaker named name.
func NewGuardedSink(name string, next Sink, timeout time.Duration, logger *logrus.Logger) *GuardedSink {
	if timeout <= 0 {
		timeout = DefaultBreakerTimeout
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerMaxRequests,
		Interval:    breakerInterval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= breakerMinRequests && failureRatio >= breakerFailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"sink": name,
				"from": from.String(),
				"to":   to.String(),
			}).Warn("Output sink circuit breaker changed state")
		},
	})
	return &GuardedSink{next: next, breaker: breaker}
}

// Put forwards to the wrapped sink through the breaker.
func (g *GuardedSink) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, g.next.Put(ctx, key, r, contentType)
	})
	return err
}

// State reports the breaker state.
func (g *GuardedSink) State() gobreaker.State {
	return g.breaker.State()
}
