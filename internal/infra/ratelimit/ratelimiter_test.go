package ratelimit_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpulse/gateway/internal/infra/ratelimit"
)

func newTestLimiter() *ratelimit.FixedWindowLimiter {
	return ratelimit.NewFixedWindowLimiter(ratelimit.NewMemoryStore(), time.Minute, 3)
}

func TestAdmitUpToCeiling(t *testing.T) {
	limiter := newTestLimiter()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		decision, err := limiter.Admit(ctx, "user-1", "cache_refresh", now)
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "call %d within ceiling should be admitted", i+1)
	}

	decision, err := limiter.Admit(ctx, "user-1", "cache_refresh", now)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Greater(t, decision.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, decision.RetryAfter, time.Minute)
}

func TestRetryAfterShrinksWithinWindow(t *testing.T) {
	limiter := newTestLimiter()
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := limiter.Admit(ctx, "user-1", "cache_refresh", start)
		require.NoError(t, err)
	}

	decision, err := limiter.Admit(ctx, "user-1", "cache_refresh", start.Add(20*time.Second))
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	assert.Equal(t, 40*time.Second, decision.RetryAfter)
}

func TestWindowResetsAfterExpiry(t *testing.T) {
	limiter := newTestLimiter()
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := limiter.Admit(ctx, "user-1", "cache_refresh", start)
		require.NoError(t, err)
	}

	rejected, err := limiter.Admit(ctx, "user-1", "cache_refresh", start)
	require.NoError(t, err)
	require.False(t, rejected.Allowed)

	// The counter resets once the window has fully elapsed.
	admitted, err := limiter.Admit(ctx, "user-1", "cache_refresh", start.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, admitted.Allowed)
}

func TestPrincipalsHaveIndependentCounters(t *testing.T) {
	limiter := newTestLimiter()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := limiter.Admit(ctx, "user-a", "cache_refresh", now)
		require.NoError(t, err)
	}
	rejected, err := limiter.Admit(ctx, "user-a", "cache_refresh", now)
	require.NoError(t, err)
	require.False(t, rejected.Allowed)

	decision, err := limiter.Admit(ctx, "user-b", "cache_refresh", now)
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "user-b is unaffected by user-a's quota")
}

func TestOperationsHaveIndependentCounters(t *testing.T) {
	limiter := newTestLimiter()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := limiter.Admit(ctx, "user-1", "cache_refresh", now)
		require.NoError(t, err)
	}

	decision, err := limiter.Admit(ctx, "user-1", "report_export", now)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestConcurrentAdmissionsNeverExceedCeiling(t *testing.T) {
	limiter := newTestLimiter()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	const attempts = 20
	var admitted atomic.Int64
	var wg sync.WaitGroup

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			decision, err := limiter.Admit(ctx, "user-1", "cache_refresh", now)
			if assert.NoError(t, err) && decision.Allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(3), admitted.Load(), "exactly the ceiling must be admitted, regardless of interleaving")
}
