package ratelimiter

import "time"

// Result is the outcome of one rate limit check.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // tokens left after the check; negative when denied
	ResetAt   time.Time // next refill
}

// Allowed reports whether the checked request may proceed.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before retrying a denied request, or 0 if it was allowed.
func (r *Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}

// Config defines the token bucket. Field values come from RATE_LIMIT_* variables.
type Config struct {
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"100"`        // burst size
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"100"`     // tokens added per interval
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"15m"` // refill period
}

func (c Config) validate() error {
	switch {
	case c.Capacity <= 0:
		return errInvalidConfig("capacity must be positive, got %d", c.Capacity)
	case c.RefillRate <= 0:
		return errInvalidConfig("refill rate must be positive, got %d", c.RefillRate)
	case c.RefillInterval <= 0:
		return errInvalidConfig("refill interval must be positive, got %v", c.RefillInterval)
	}
	return nil
}
