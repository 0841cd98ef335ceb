package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	driverMemory   = "memory"
	driverMongo    = "mongo"
	driverPostgres = "postgres"
	driverRedis    = "redis"

	paymentInstant = "instant"
	paymentPaddle  = "paddle"
)

var errInvalidAppConfig = errors.New("invalid application configuration")

// appConfig selects the backends the process is wired with.
// Backend-specific settings live in the config structs of their packages.
type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"subhub"`
	LogLevel    string `env:"LOG_LEVEL"` // overrides the APP_ENV preset: debug, info, warn or error

	StorageDriver     string `env:"STORAGE_DRIVER" envDefault:"memory"`    // memory, mongo or postgres
	PaymentProvider   string `env:"PAYMENT_PROVIDER" envDefault:"instant"` // instant or paddle
	OptimisticLocking bool   `env:"OPTIMISTIC_LOCKING" envDefault:"false"`

	CatalogSeedFile string        `env:"CATALOG_SEED_FILE"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"0s"` // 0 disables the catalog cache
	CacheDriver     string        `env:"CACHE_DRIVER" envDefault:"memory"`  // memory or redis
	CacheSize       int           `env:"CACHE_SIZE" envDefault:"1024"`      // entries, memory driver only

	RateLimitEnabled bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitDriver  string `env:"RATE_LIMIT_DRIVER" envDefault:"memory"` // memory or redis

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

func (c appConfig) validate() error {
	var errs []error
	if _, err := c.logLevel(); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	switch c.StorageDriver {
	case driverMemory, driverMongo, driverPostgres:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER %q is not one of memory, mongo, postgres", c.StorageDriver))
	}
	switch c.PaymentProvider {
	case paymentInstant, paymentPaddle:
	default:
		errs = append(errs, fmt.Errorf("PAYMENT_PROVIDER %q is not one of instant, paddle", c.PaymentProvider))
	}
	if c.CatalogCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("CATALOG_CACHE_TTL must not be negative, got %v", c.CatalogCacheTTL))
	}
	if c.CatalogCacheTTL > 0 {
		switch c.CacheDriver {
		case driverMemory:
			if c.CacheSize <= 0 {
				errs = append(errs, fmt.Errorf("CACHE_SIZE must be positive, got %d", c.CacheSize))
			}
		case driverRedis:
		default:
			errs = append(errs, fmt.Errorf("CACHE_DRIVER %q is not one of memory, redis", c.CacheDriver))
		}
	}
	if c.RateLimitEnabled {
		switch c.RateLimitDriver {
		case driverMemory, driverRedis:
		default:
			errs = append(errs, fmt.Errorf("RATE_LIMIT_DRIVER %q is not one of memory, redis", c.RateLimitDriver))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{errInvalidAppConfig}, errs...)...)
	}
	return nil
}

// logLevel returns the LOG_LEVEL override, or nil when unset.
func (c appConfig) logLevel() (*slog.Level, error) {
	if c.LogLevel == "" {
		return nil, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, err
	}
	return &level, nil
}

// needsRedis reports whether any enabled component is backed by redis.
func (c appConfig) needsRedis() bool {
	return (c.CatalogCacheTTL > 0 && c.CacheDriver == driverRedis) ||
		(c.RateLimitEnabled && c.RateLimitDriver == driverRedis)
}
