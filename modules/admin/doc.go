// Package admin is the HTTP adapter of subhub.
//
// It mounts three handler groups on a chi router: catalog administration
// (ServicesHandler), read-only user administration (UsersHandler) and the
// per-user subscription lifecycle (SubscriptionsHandler). Router adds request ids,
// request logging, panic recovery, CORS, the health endpoints and optional rate limiting.
//
//	r := admin.Router(admin.RouterOptions{
//		Services:      admin.NewServicesHandler(cat, admin.WithLogger(log)),
//		Users:         admin.NewUsersHandler(users, admin.WithLogger(log)),
//		Subscriptions: admin.NewSubscriptionsHandler(engine, admin.WithLogger(log)),
//		Checks:        map[string]httpserver.Check{"redis": redis.Healthcheck(client)},
//		RateLimiter:   limiter,
//		Logger:        log,
//	})
//
// Every response uses the handler package's JSON envelope. MapError assigns the status:
// 400 for malformed input, 402 for declined payments, 404 for unknown users, services or
// subscriptions, 409 for conflicts, 422 for invalid definitions and 500 for dependency failures.
// A failed subscribe that was already charged carries meta.outcome = "charged_but_not_fulfilled".
package admin
