package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/batonkit/baton"
)

// DefaultMaxAttempts is the total number of attempts Retry makes when the
// policy does not set one.
const DefaultMaxAttempts = 3

// BackoffFunc returns how long to wait before the next attempt. The wait
// preceding the first retry is called with attempt 1.
type BackoffFunc func(attempt int) time.Duration

// FixedBackoff waits the same duration before every retry.
func FixedBackoff(d time.Duration) BackoffFunc {
	return func(int) time.Duration { return d }
}

// ExponentialBackoff doubles the wait on every retry, starting at base and
// capped at max.
func ExponentialBackoff(base, max time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		d := base << (attempt - 1)
		if d <= 0 || d > max {
			return max
		}
		return d
	}
}

// RetryPolicy configures the Retry middleware. The zero value is usable:
// DefaultMaxAttempts total attempts, exponential backoff from 100ms capped
// at 2s, and only baton.ErrModel treated as retryable.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 mean DefaultMaxAttempts.
	MaxAttempts int

	// Backoff returns the wait before each retry. Nil means
	// ExponentialBackoff(100*time.Millisecond, 2*time.Second).
	Backoff BackoffFunc

	// Retryable reports whether an error is worth another attempt. Nil
	// means only baton.ErrModel. Context cancellation and deadline expiry
	// are never retried regardless of this function.
	Retryable func(error) bool
}

func (p RetryPolicy) normalize() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Backoff == nil {
		p.Backoff = ExponentialBackoff(100*time.Millisecond, 2*time.Second)
	}
	if p.Retryable == nil {
		p.Retryable = func(err error) bool { return errors.Is(err, baton.ErrModel) }
	}
	return p
}

// Retry re-invokes the wrapped pipeline on retryable errors, waiting per
// the policy's backoff between attempts. Transient model failures are the
// intended target; deterministic failures such as
// baton.ErrInvalidArguments gain nothing from another attempt and pass
// through untouched. An error that survives a retry is annotated with the
// attempt count. Backoff waits respect ctx, and cancellation surfaces as
// the context's error.
func Retry(policy RetryPolicy) baton.Middleware {
	policy = policy.normalize()
	return func(next baton.Pipeline) baton.Pipeline {
		return func(ctx context.Context, scope baton.Scope, history []baton.Message) (baton.AssistantMessage, error) {
			for attempt := 1; ; attempt++ {
				msg, err := next(ctx, scope, history)
				if err == nil {
					return msg, nil
				}
				if !retryable(ctx, policy, err) || attempt == policy.MaxAttempts {
					if attempt == 1 {
						return baton.AssistantMessage{}, err
					}
					return baton.AssistantMessage{}, fmt.Errorf("after %d attempts: %w", attempt, err)
				}
				if werr := wait(ctx, policy.Backoff(attempt)); werr != nil {
					return baton.AssistantMessage{}, werr
				}
			}
		}
	}
}

func retryable(ctx context.Context, policy RetryPolicy, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return policy.Retryable(err)
}

// wait blocks for d or until ctx is done, whichever comes first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
