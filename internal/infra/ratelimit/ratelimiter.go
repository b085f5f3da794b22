package ratelimit

import (
	"context"
	"time"
)

// Decision reports the outcome of an admission check.
type Decision struct {
	Allowed bool
	// RetryAfter is the time remaining in the current window. Only set
	// when the request is rejected.
	RetryAfter time.Duration
}

// Store tracks fixed-window counters. Implementations must make the
// read-check-increment sequence atomic per key so that concurrent checks
// for the same key never admit more than the ceiling.
type Store interface {
	Admit(ctx context.Context, key string, now time.Time, window time.Duration, ceiling int) (Decision, error)
}

// FixedWindowLimiter admits calls to a privileged operation up to a fixed
// ceiling per window, keyed by principal and operation. Counters reset
// fully at window boundaries.
type FixedWindowLimiter struct {
	store   Store
	window  time.Duration
	ceiling int
}

// NewFixedWindowLimiter creates a limiter backed by the given store.
func NewFixedWindowLimiter(store Store, window time.Duration, ceiling int) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		store:   store,
		window:  window,
		ceiling: ceiling,
	}
}

// Admit checks whether the principal may perform the operation at time now.
func (l *FixedWindowLimiter) Admit(ctx context.Context, principalID, operation string, now time.Time) (Decision, error) {
	return l.store.Admit(ctx, Key(principalID, operation), now, l.window, l.ceiling)
}

// Key builds the counter key for a principal/operation pair.
func Key(principalID, operation string) string {
	return principalID + ":" + operation
}
