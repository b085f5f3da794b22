package execution

import (
	"context"
	"math/rand"
	"time"
)

// RetryableFunc is a function that can be retried. A nil error stops the
// retry loop.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// WithRetry executes a function with exponential backoff and jitter. The
// last error is returned once maxRetries attempts are exhausted or the
// context is done.
func WithRetry[T any](ctx context.Context, maxRetries int, initialBackoff time.Duration, maxBackoff time.Duration, fn RetryableFunc[T]) (T, error) {
	var result T
	var err error

	for i := 0; i < maxRetries; i++ {
		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}

		backoff := initialBackoff * (1 << i)
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		jitter := time.Duration(rand.Intn(100)) * time.Millisecond

		select {
		case <-time.After(backoff + jitter):
		case <-ctx.Done():
			return result, ctx.Err()
		}
	}

	return result, err
}
