package retry

import (
	"context"
	"errors"
	"time"
)

// Do executes fn with retry logic, respecting context cancellation during
// backoff waits. It honors a server-suggested Retry-After delay when the
// error carries one. Returns the result on success, or the last error when
// all attempts fail.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsTransient(err) {
			return zero, err
		}

		// Don't sleep after the last attempt.
		if attempt < cfg.MaxAttempts-1 {
			delay := cfg.Delay(attempt)
			if suggested := retryAfterOf(err); suggested > delay {
				delay = suggested
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}

func retryAfterOf(err error) time.Duration {
	var se *StatusError
	if errors.As(err, &se) {
		return se.RetryAfter
	}
	return 0
}
