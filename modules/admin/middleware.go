package admin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/subhub/handler"
	"github.com/dmitrymomot/subhub/pkg/logger"
	"github.com/dmitrymomot/subhub/pkg/ratelimiter"
)

// RequestLogger logs one record per request after the response is written.
// Successful requests log at info, client errors at warn and server errors at error.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusBadRequest {
				level = handler.LogLevel(status)
			}

			log.LogAttrs(r.Context(), level, "http request",
				logger.HTTPRequest(r.Method, r.URL.Path, status),
				logger.Duration(time.Since(start)),
				slog.Int("bytes", ww.BytesWritten()),
				slog.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

// RateLimit applies limiter per client address and answers in the JSON envelope.
func RateLimit(limiter ratelimiter.RateLimiter, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}

	return ratelimiter.Middleware(limiter, ratelimiter.ByIP,
		ratelimiter.WithDeniedHandler(func(w http.ResponseWriter, r *http.Request, result *ratelimiter.Result) {
			_ = handler.JSONError(
				handler.ErrTooManyRequests.WithMessage("rate limit exceeded, retry later"),
				handler.WithJSONMeta(map[string]any{
					"limit":    result.Limit,
					"reset_at": result.ResetAt.UTC(),
				}),
			).Render(w, r)
		}),
		ratelimiter.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			handler.LogError(log, r, err, http.StatusInternalServerError)
			_ = handler.JSONError(handler.ErrInternalServerError).Render(w, r)
		}),
	)
}

// notFound and methodNotAllowed keep router-level misses in the JSON envelope.
func notFound(w http.ResponseWriter, r *http.Request) {
	_ = handler.JSONError(handler.ErrNotFound).Render(w, r)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = handler.JSONError(handler.ErrMethodNotAllowed).Render(w, r)
}
