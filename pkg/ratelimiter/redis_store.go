package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills and consumes atomically.
// KEYS[1] bucket hash; ARGV: capacity, refill rate, interval ms, now ms, tokens, ttl ms.
// Returns {remaining, last refill ms}.
var tokenBucketScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local cost = tonumber(ARGV[5])

local state = redis.call("HMGET", KEYS[1], "tokens", "last")
local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
  tokens = capacity
  last = now
end

local elapsed = now - last
if elapsed >= interval then
  local intervals = math.min(math.floor(elapsed / interval), math.floor(capacity / rate) + 1)
  tokens = math.min(tokens + intervals * rate, capacity)
  last = now
end

local remaining = tokens - cost
if remaining >= 0 then
  tokens = remaining
end

redis.call("HSET", KEYS[1], "tokens", tokens, "last", last)
redis.call("PEXPIRE", KEYS[1], ARGV[6])
return {remaining, last}
`)

// RedisStore shares bucket state between API instances.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a store that namespaces keys under prefix (default "subhub:ratelimit").
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if client == nil {
		panic("ratelimiter: redis client is required")
	}
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "subhub:ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (rs *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	intervalMs := max(config.RefillInterval.Milliseconds(), 1)
	// A bucket idle long enough to be full again carries no information.
	fillIntervals := int64(config.Capacity/config.RefillRate + 1)
	ttlMs := intervalMs * fillIntervals

	raw, err := tokenBucketScript.Run(ctx, rs.client, []string{rs.key(key)},
		config.Capacity, config.RefillRate, intervalMs, rs.now().UnixMilli(), tokens, ttlMs,
	).Result()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}

	values, ok := raw.([]any)
	if !ok || len(values) != 2 {
		return 0, time.Time{}, fmt.Errorf("%w: unexpected script response %T", ErrStoreUnavailable, raw)
	}
	remaining, ok1 := values[0].(int64)
	last, ok2 := values[1].(int64)
	if !ok1 || !ok2 {
		return 0, time.Time{}, fmt.Errorf("%w: unexpected script values %T, %T", ErrStoreUnavailable, values[0], values[1])
	}

	resetAt := time.UnixMilli(last).Add(config.RefillInterval)
	return int(remaining), resetAt, nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.key(key)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (rs *RedisStore) key(k string) string {
	return rs.prefix + ":" + k
}
