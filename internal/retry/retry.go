// Package retry runs an operation until it succeeds, is refused as permanent,
// or runs out of attempts.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff returns the wait after the given failed attempt (1-based).
	Backoff func(attempt int) time.Duration
	// Retryable reports whether a failure may be retried. Nil retries everything.
	Retryable func(err error) bool
	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// Linear waits attempt*step after each failure.
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// Do runs op under the policy. op receives the 0-based attempt number.
// Waiting between attempts honors ctx.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	attempt := 0
	operation := func() (T, error) {
		res, err := op(ctx, attempt)
		attempt++
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil || p.Retryable != nil && !p.Retryable(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}
	opts := []backoff.RetryOption{
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithBackOff(&schedule{wait: p.Backoff}),
		backoff.WithMaxElapsedTime(0),
	}
	if p.OnRetry != nil {
		opts = append(opts, backoff.WithNotify(func(err error, wait time.Duration) {
			p.OnRetry(attempt, err, wait)
		}))
	}
	return backoff.Retry(ctx, operation, opts...)
}

// schedule adapts a per-attempt wait function to backoff.BackOff.
type schedule struct {
	wait   func(int) time.Duration
	failed int
}

func (s *schedule) NextBackOff() time.Duration {
	s.failed++
	if s.wait == nil {
		return 0
	}
	return s.wait(s.failed)
}

func (s *schedule) Reset() {
	s.failed = 0
}
