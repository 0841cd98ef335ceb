package httpserver

import "log/slog"

// Option configures the parts of the server that do not come from the environment.
type Option func(*settings)

// WithLogger sets the server logger. Nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStartHook registers a callback invoked with the bound address once the listener is open.
func WithStartHook(h func(addr string)) Option {
	return func(s *settings) {
		if h != nil {
			s.startHooks = append(s.startHooks, h)
		}
	}
}

// WithStopHook registers a callback that runs after the server shuts down.
func WithStopHook(h func()) Option {
	return func(s *settings) {
		if h != nil {
			s.stopHooks = append(s.stopHooks, h)
		}
	}
}
