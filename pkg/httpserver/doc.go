// Package httpserver runs the HTTP API with graceful shutdown and serves the
// liveness and readiness probes.
//
// Run binds the listener up front, so a bad address fails immediately with ErrStart,
// and serves until its context is cancelled. Shutdown drains in-flight requests within
// the configured timeout and is safe to call more than once. Signal handling is left to
// the caller, typically through signal.NotifyContext in main.
//
// # Usage
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//
//	r := chi.NewRouter()
//	r.Get("/health", httpserver.LivenessHandler())
//	r.Get("/ready", httpserver.ReadinessHandler(log, map[string]httpserver.Check{
//		"mongo": mongo.Healthcheck(client),
//		"redis": redis.Healthcheck(rdb),
//	}))
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
