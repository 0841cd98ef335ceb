// Command subhub serves the subscription lifecycle API.
//
// Configuration comes from the environment (and a .env file when present); see appConfig
// and the Config structs of pkg/httpserver, pkg/mongo, pkg/pg, pkg/redis, pkg/ratelimiter
// and pkg/subscription for the variables each backend reads.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/subhub/pkg/config"
	"github.com/dmitrymomot/subhub/pkg/httpserver"
	"github.com/dmitrymomot/subhub/pkg/logger"
	"github.com/dmitrymomot/subhub/pkg/requestid"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "subhub: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load[appConfig]()
	if err != nil {
		return err
	}
	srvCfg, err := config.Load[httpserver.Config]()
	if err != nil {
		return err
	}

	level, err := cfg.logLevel()
	if err != nil {
		return err
	}
	logOpts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(requestid.LogExtractor()),
	}
	if level != nil {
		logOpts = append(logOpts, logger.WithLevel(*level))
	}
	log := logger.New(logOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to start", logger.Error(err))
		return err
	}
	defer a.close(context.WithoutCancel(ctx))

	log.InfoContext(ctx, "subhub starting",
		logger.Component("main"),
		logger.Operation("start"),
	)

	srv := httpserver.NewFromConfig(srvCfg, httpserver.WithLogger(log.With(logger.Component("httpserver"))))
	return srv.Run(ctx, a.handler())
}
