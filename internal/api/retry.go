package api

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultMaxAttempts is the total attempt budget for retried
	// operations.
	DefaultMaxAttempts = 3

	// DefaultInitialDelay seeds the exponential backoff.
	DefaultInitialDelay = 1 * time.Second
)

// RetryPolicy retries an operation with exponential backoff and
// jitter. It is a standalone policy object so the same behavior can be
// composed around any operation rather than inlined per API method.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration

	// Retryable decides whether a failure is worth another attempt.
	// Defaults to RetryableError.
	Retryable func(error) bool

	// OnRetry is invoked before each backoff sleep. Optional.
	OnRetry func(name string, attempt int, delay time.Duration, err error)
}

// DefaultRetryPolicy returns the policy applied to list-fetch
// operations.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		Retryable:    RetryableError,
	}
}

// Do runs op, retrying per the policy. The last failure is returned
// after the attempt budget is spent. Non-retryable failures are
// surfaced immediately.
func (p RetryPolicy) Do(ctx context.Context, name string, op func() error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = RetryableError
	}

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}

		if !retryable(err) || attempt == maxAttempts-1 {
			return err
		}

		delay := p.backoffDelay(attempt)
		log.Debug().
			Str("operation", name).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Err(err).
			Msg("Retrying after transient failure")
		if p.OnRetry != nil {
			p.OnRetry(name, attempt+1, delay, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return err
}

// backoffDelay computes initial * 2^attempt scaled by a jitter factor
// drawn uniformly from [0.9, 1.1].
func (p RetryPolicy) backoffDelay(attempt int) time.Duration {
	initial := p.InitialDelay
	if initial <= 0 {
		initial = DefaultInitialDelay
	}
	jitter := 0.9 + 0.2*rand.Float64()
	return time.Duration(float64(initial) * float64(int64(1)<<attempt) * jitter)
}
