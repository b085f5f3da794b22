package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisStore creates a counter store shared across gateway instances.
// The window is enforced through key expiry, so counters survive restarts
// and horizontally scaled instances observe the same quota.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

type redisStore struct {
	client *redis.Client
}

// admitScript atomically increments the counter and stamps the window
// expiry on first use, so two concurrent calls cannot both create the key.
var admitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`)

func (s *redisStore) Admit(ctx context.Context, key string, now time.Time, window time.Duration, ceiling int) (Decision, error) {
	result, err := admitScript.Run(ctx, s.client, []string{"ratelimit:" + key}, window.Milliseconds()).Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit store: %w", err)
	}
	if len(result) != 2 {
		return Decision{}, fmt.Errorf("rate limit store: unexpected script reply of length %d", len(result))
	}

	count, ok := result[0].(int64)
	if !ok {
		return Decision{}, fmt.Errorf("rate limit store: unexpected count type %T", result[0])
	}
	ttlMillis, ok := result[1].(int64)
	if !ok {
		return Decision{}, fmt.Errorf("rate limit store: unexpected ttl type %T", result[1])
	}

	if count > int64(ceiling) {
		return Decision{
			Allowed:    false,
			RetryAfter: time.Duration(ttlMillis) * time.Millisecond,
		}, nil
	}

	return Decision{Allowed: true}, nil
}
