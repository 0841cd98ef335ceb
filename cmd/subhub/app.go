package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/subhub/internal/db"
	"github.com/dmitrymomot/subhub/modules/admin"
	"github.com/dmitrymomot/subhub/pkg/cache"
	"github.com/dmitrymomot/subhub/pkg/catalog"
	"github.com/dmitrymomot/subhub/pkg/config"
	"github.com/dmitrymomot/subhub/pkg/httpserver"
	"github.com/dmitrymomot/subhub/pkg/logger"
	"github.com/dmitrymomot/subhub/pkg/mongo"
	"github.com/dmitrymomot/subhub/pkg/pg"
	"github.com/dmitrymomot/subhub/pkg/ratelimiter"
	"github.com/dmitrymomot/subhub/pkg/redis"
	"github.com/dmitrymomot/subhub/pkg/subscription"
)

// userStore is what every user backend provides.
type userStore interface {
	subscription.VersionedUserStore
	catalog.ReferenceChecker
}

// app holds the wired components and the resources to release on exit.
type app struct {
	cfg appConfig
	log *slog.Logger

	catalog *catalog.Catalog
	users   userStore
	engine  subscription.Service
	limiter ratelimiter.RateLimiter

	redis        goredis.UniversalClient
	redisStorage *redis.Storage
	checks       map[string]httpserver.Check
	closers      []func(context.Context) error
}

// newApp connects the configured backends, seeds the catalog and builds the engine.
// On error everything opened so far is closed again.
func newApp(ctx context.Context, cfg appConfig, log *slog.Logger) (_ *app, err error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		log:    log,
		checks: make(map[string]httpserver.Check),
	}
	defer func() {
		if err != nil {
			a.close(context.WithoutCancel(ctx))
		}
	}()

	if cfg.needsRedis() {
		if err := a.connectRedis(ctx); err != nil {
			return nil, err
		}
	}

	services, err := a.openStores(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.CatalogCacheTTL > 0 {
		cached := catalog.NewCachedStore(services, a.catalogCache(), cfg.CatalogCacheTTL,
			catalog.WithCacheKeyPrefix(cfg.ServiceName+":catalog:"),
			catalog.WithCacheLogger(log.With(logger.Component("catalog_cache"))),
		)
		if err := cached.Purge(ctx); err != nil {
			return nil, err
		}
		services = cached
	}

	a.catalog = catalog.New(services, a.users, catalog.WithLogger(log.With(logger.Component("catalog"))))

	if cfg.CatalogSeedFile != "" {
		if err := a.seed(ctx); err != nil {
			return nil, err
		}
	}

	payments, err := a.paymentGateway()
	if err != nil {
		return nil, err
	}

	opts := []subscription.ServiceOption{
		subscription.WithLogger(log.With(logger.Component("subscription"))),
	}
	if cfg.OptimisticLocking {
		opts = append(opts, subscription.WithOptimisticLocking())
	}
	a.engine = subscription.NewService(a.catalog, a.users, payments,
		subscription.NewLocalFulfiller(log.With(logger.Component("fulfillment"))), opts...)

	if cfg.RateLimitEnabled {
		if err := a.buildLimiter(); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *app) connectRedis(ctx context.Context) error {
	cfg, err := config.Load[redis.Config]()
	if err != nil {
		return err
	}
	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return err
	}

	a.redis = client
	a.redisStorage = redis.NewStorageWithConfig(client, cfg)
	a.checks["redis"] = redis.Healthcheck(client)
	a.onClose(func(context.Context) error { return client.Close() })
	return nil
}

// openStores sets a.users and returns the catalog store of the configured driver.
func (a *app) openStores(ctx context.Context) (catalog.Store, error) {
	switch a.cfg.StorageDriver {
	case driverMongo:
		cfg, err := config.Load[mongo.Config]()
		if err != nil {
			return nil, err
		}
		client, err := mongo.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.checks["mongo"] = mongo.Healthcheck(client)
		a.onClose(client.Disconnect)

		database := client.Database(cfg.Database)
		services := catalog.NewMongoStore(database, cfg.ServicesCollection)
		users := subscription.NewMongoUserStore(database, cfg.UsersCollection)
		if err := services.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		a.users = users
		return services, nil

	case driverPostgres:
		cfg, err := config.Load[pg.Config]()
		if err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.checks["postgres"] = pg.Healthcheck(pool)
		a.onClose(func(context.Context) error { pool.Close(); return nil })

		if !cfg.SkipMigrations {
			if err := pg.Migrate(ctx, pool, db.Migrations, db.MigrationsDir, cfg, a.log); err != nil {
				return nil, err
			}
		}
		a.users = subscription.NewPostgresUserStore(pool)
		return catalog.NewPostgresStore(pool), nil

	default:
		a.users = subscription.NewMemoryUserStore()
		return catalog.NewMemoryStore(), nil
	}
}

func (a *app) catalogCache() catalog.Cache {
	if a.cfg.CacheDriver == driverRedis {
		return a.redisStorage
	}
	return cache.NewStore(a.cfg.CacheSize)
}

func (a *app) seed(ctx context.Context) error {
	services, err := catalog.LoadSeedFile(a.cfg.CatalogSeedFile)
	if err != nil {
		return err
	}
	created, err := catalog.Seed(ctx, a.catalog, services)
	if err != nil {
		return err
	}
	a.log.InfoContext(ctx, "catalog seeded",
		slog.String("file", a.cfg.CatalogSeedFile),
		slog.Int("created", created),
		slog.Int("skipped", len(services)-created),
	)
	return nil
}

func (a *app) paymentGateway() (subscription.PaymentGateway, error) {
	if a.cfg.PaymentProvider != paymentPaddle {
		return subscription.InstantApproval{}, nil
	}
	cfg, err := config.Load[subscription.PaddleConfig]()
	if err != nil {
		return nil, err
	}
	gateway, err := subscription.NewPaddleGateway(cfg)
	if err != nil {
		return nil, err
	}
	return gateway, nil
}

func (a *app) buildLimiter() error {
	cfg, err := config.Load[ratelimiter.Config]()
	if err != nil {
		return err
	}

	var store ratelimiter.Store
	if a.cfg.RateLimitDriver == driverRedis {
		store = ratelimiter.NewRedisStore(a.redis, a.cfg.ServiceName+":ratelimit")
	} else {
		mem := ratelimiter.NewMemoryStore()
		a.onClose(func(context.Context) error { mem.Close(); return nil })
		store = mem
	}

	limiter, err := ratelimiter.NewBucket(store, cfg)
	if err != nil {
		return err
	}
	a.limiter = limiter
	return nil
}

// handler builds the HTTP surface over the wired components.
func (a *app) handler() http.Handler {
	opts := []admin.Option{admin.WithLogger(a.log.With(logger.Component("http")))}
	return admin.Router(admin.RouterOptions{
		Services:       admin.NewServicesHandler(a.catalog, opts...),
		Users:          admin.NewUsersHandler(a.users, opts...),
		Subscriptions:  admin.NewSubscriptionsHandler(a.engine, opts...),
		Checks:         a.checks,
		RateLimiter:    a.limiter,
		AllowedOrigins: a.cfg.AllowedOrigins,
		Logger:         a.log,
	})
}

func (a *app) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// close releases resources in reverse order of acquisition.
func (a *app) close(ctx context.Context) {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		a.log.ErrorContext(ctx, "failed to release resources", logger.Error(fmt.Errorf("close: %w", err)))
	}
}
