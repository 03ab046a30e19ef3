package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Policy bounds a retry loop.
//
// The delay before attempt n+1 is BaseDelay * 2^(n-1), replaced by a larger server Retry-After.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *log.Logger
	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy returns a policy of three attempts starting at a one second delay.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

func (p Policy) attempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

// Delay returns the wait after the given 1-based failed attempt.
func (p Policy) Delay(attempt int, retryAfter time.Duration) time.Duration {
	base := p.BaseDelay
	if base < 0 {
		base = 0
	}
	if attempt < 1 {
		attempt = 1
	}
	delay := base * time.Duration(1<<(attempt-1))
	if retryAfter > delay {
		delay = retryAfter
	}
	return delay
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	return SleepWithContext(ctx, d)
}

// Do runs op until it succeeds, fails with a non-retryable error, or the attempts run out.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// DoValue is [Do] for operations that produce a value.
//
// Non-retryable failures are returned unchanged. On exhaustion the last failure is wrapped in [ErrExhausted].
func DoValue[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := p.attempts()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return zero, fmt.Errorf("retry canceled: %w (last failure: %v)", err, lastErr)
			}
			return zero, err
		}

		value, err := op(ctx)
		if err == nil {
			return value, nil
		}
		if !Retryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		var retryAfter time.Duration
		var f *Failure
		if errors.As(err, &f) {
			retryAfter = f.RetryAfter
		}
		delay := p.Delay(attempt, retryAfter)

		if p.Logger != nil {
			p.Logger.Warn("retrying external call", "attempt", attempt, "max", maxAttempts, "delay", delay, "err", err)
		}

		if err := p.sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, maxAttempts, lastErr)
}

// SleepWithContext waits for delay or until ctx is done.
func SleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
