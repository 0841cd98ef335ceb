// Package ratelimiter throttles API clients with a token bucket.
//
// A Bucket combines a Config (capacity, refill rate and interval) with a Store that holds
// per-key state: MemoryStore for a single instance, RedisStore to share limits across
// instances through an atomic Lua script. Middleware applies a limiter to HTTP handlers,
// sets X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset, and answers
// denied requests with 429 and Retry-After.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(rdb, "subhub:ratelimit"), cfg)
//	if err != nil {
//		return err
//	}
//	r.Use(ratelimiter.Middleware(limiter, ratelimiter.ByIP))
//
// Denied requests do not consume tokens, so a client that keeps hammering is let back in
// as soon as the next refill lands.
package ratelimiter
