package subscription

import (
	"log/slog"
	"time"
)

// ServiceOption configures a Service instance.
type ServiceOption func(*service)

// WithLogger sets the logger for lifecycle events. Defaults to a discarding logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source used for start dates. Defaults to time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the subscription id generator. Defaults to uuid.NewString.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithOptimisticLocking makes the final write of every operation a compare-and-set on User.Version,
// so a concurrent writer makes the operation fail with ErrVersionConflict instead of being overwritten.
// Off by default. Panics at construction if the user store does not implement VersionedUserStore.
func WithOptimisticLocking() ServiceOption {
	return func(s *service) {
		s.optimistic = true
	}
}
