// Package redis connects to Redis and exposes the small surface subhub needs from it.
//
//   - Connect retries the initial ping using Config.
//   - Storage is a context-aware key/value wrapper used as the catalog cache backend.
//   - Healthcheck plugs Redis into the readiness probe.
//
// Config fields are read from the environment via caarlos0/env:
//
//	cfg, err := config.Load[redis.Config]()
//	client, err := redis.Connect(ctx, cfg)
//	defer client.Close()
//
//	store := redis.NewStorageWithConfig(client, cfg)
//	services := catalog.NewCachedStore(pgStore, store, time.Minute)
//	err = services.Purge(ctx) // uses Storage.DeletePrefix
//
// Errors returned by Connect and Healthcheck join a package sentinel
// (ErrRedisNotReady, ErrHealthcheckFailed) with the driver error.
package redis
