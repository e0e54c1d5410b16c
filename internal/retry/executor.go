package retry

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
)

// Classification tells the executor what to do with a failed attempt.
type Classification int

const (
	// Fatal errors are surfaced immediately without further attempts.
	Fatal Classification = iota
	// Retryable errors trigger backoff and another attempt while the
	// policy's attempt budget lasts.
	Retryable
)

// Classifier decides per call site whether an error is worth retrying.
type Classifier func(error) Classification

// ExhaustedError reports that a retryable operation never succeeded within
// the policy's attempt budget.
type ExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("operation failed after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *ExhaustedError) Unwrap() error { return e.LastErr }

// Do runs op under the policy. The first attempt executes immediately; each
// retryable failure sleeps Delay(attempt) on clock before the next attempt.
// Context cancellation during backoff returns ctx.Err() without issuing the
// pending attempt. A nil classify treats every error as retryable.
func Do[T any](ctx context.Context, policy Policy, clock clockwork.Clock, classify Classifier, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := policy.Validate(); err != nil {
		return zero, err
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if classify != nil && classify(err) == Fatal {
			return zero, err
		}
		lastErr = err
		if attempt == policy.MaxAttempts {
			break
		}

		timer := clock.NewTimer(policy.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.Chan():
		}
	}
	return zero, &ExhaustedError{Attempts: policy.MaxAttempts, LastErr: lastErr}
}
