package admin

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/subhub/handler"
	"github.com/dmitrymomot/subhub/pkg/logger"
)

// Option configures the module's handlers.
type Option func(*options)

type options struct {
	log *slog.Logger
	now func() time.Time
}

// WithLogger sets the logger for request errors.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithClock sets the time source used to derive effective subscription status.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		log: logger.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// fail logs err and renders its mapped form.
func (o *options) fail(ctx handler.Context, err error, opts ...handler.JSONOption) handler.Response {
	mapped := MapError(err)
	handler.LogError(o.log, ctx.Request(), err, handler.StatusOf(mapped))
	return handler.JSONError(mapped, opts...)
}

// errorHandler handles binder failures of this module.
func (o *options) errorHandler() handler.ErrorHandler {
	return handler.NewErrorHandler(o.log, MapError)
}
