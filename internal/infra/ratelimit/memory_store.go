package ratelimit

import (
	"context"
	"sync"
	"time"
)

// windowState is the per-key counter for the current window.
type windowState struct {
	windowStart time.Time
	count       int
}

// NewMemoryStore creates a process-local counter store. Counters are not
// persisted and not shared across instances.
func NewMemoryStore() Store {
	return &memoryStore{
		windows: make(map[string]*windowState),
	}
}

type memoryStore struct {
	mu      sync.Mutex
	windows map[string]*windowState
}

func (s *memoryStore) Admit(ctx context.Context, key string, now time.Time, window time.Duration, ceiling int) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, exists := s.windows[key]
	if !exists || now.Sub(state.windowStart) >= window {
		state = &windowState{windowStart: now}
		s.windows[key] = state
	}

	if state.count >= ceiling {
		return Decision{
			Allowed:    false,
			RetryAfter: window - now.Sub(state.windowStart),
		}, nil
	}

	state.count++
	return Decision{Allowed: true}, nil
}
