package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/subhub/pkg/httpserver"
	"github.com/dmitrymomot/subhub/pkg/logger"
	"github.com/dmitrymomot/subhub/pkg/ratelimiter"
	"github.com/dmitrymomot/subhub/pkg/requestid"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which handlers the router mounts.
// Each handler group is optional and only mounted if provided.
type RouterOptions struct {
	Services      Mountable
	Users         Mountable
	Subscriptions Mountable

	// Checks back GET /ready. GET /health is always mounted.
	Checks map[string]httpserver.Check

	// RateLimiter guards everything under /api when set.
	RateLimiter ratelimiter.RateLimiter

	// AllowedOrigins for CORS; defaults to any origin.
	AllowedOrigins []string

	Logger *slog.Logger
}

// Router builds the HTTP surface:
//
//	GET    /health
//	GET    /ready
//	GET    /api/admin/users
//	GET    /api/admin/users/{userID}
//	GET    /api/admin/services
//	POST   /api/admin/services
//	GET    /api/admin/services/{serviceID}
//	PATCH  /api/admin/services/{serviceID}
//	DELETE /api/admin/services/{serviceID}
//	GET    /api/users/{userID}/subscriptions
//	POST   /api/users/{userID}/subscriptions
//	DELETE /api/users/{userID}/subscriptions/{serviceID}
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestid.New())
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))
	r.Use(middleware.SetHeader("X-Frame-Options", "DENY"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestid.Header},
		ExposedHeaders: []string{requestid.Header, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/health", httpserver.LivenessHandler())
	r.Get("/ready", httpserver.ReadinessHandler(log, opts.Checks))

	r.Route("/api", func(api chi.Router) {
		if opts.RateLimiter != nil {
			api.Use(RateLimit(opts.RateLimiter, log))
		}

		api.Route("/admin", func(admin chi.Router) {
			if opts.Services != nil {
				admin.Mount("/services", opts.Services.Handle())
			}
			if opts.Users != nil {
				admin.Mount("/users", opts.Users.Handle())
			}
		})
		if opts.Subscriptions != nil {
			api.Mount("/users/{userID}/subscriptions", opts.Subscriptions.Handle())
		}
	})

	return r
}
