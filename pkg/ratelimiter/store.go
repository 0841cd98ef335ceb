package ratelimiter

import (
	"context"
	"time"
)

// Store holds bucket state. Implementations must refill and consume atomically per key.
type Store interface {
	// ConsumeTokens refills the bucket for the time elapsed and takes tokens if enough are left.
	// A denied request leaves the bucket untouched and reports a negative remaining count.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the state for key.
	Reset(ctx context.Context, key string) error
}

// refill computes the bucket level after the elapsed time, capped at capacity.
// It returns the new level and whether the refill timestamp advanced.
func refill(tokens int, elapsed time.Duration, config Config) (int, bool) {
	if elapsed < config.RefillInterval {
		return tokens, false
	}
	// Capping intervals keeps the multiplication from overflowing after long idle periods.
	maxIntervals := int64(config.Capacity/config.RefillRate + 1)
	intervals := int(min(int64(elapsed/config.RefillInterval), maxIntervals))
	return min(tokens+intervals*config.RefillRate, config.Capacity), true
}
