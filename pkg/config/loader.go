package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cacheMu sync.Mutex
	cache   = make(map[reflect.Type]any)

	dotenvOnce sync.Once
)

// Load parses environment variables into T once per type and returns the cached value afterwards.
// A .env file in the working directory is loaded on first use; real environment variables win over it.
//
//	type Config struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//	cfg, err := config.Load[Config]()
func Load[T any]() (T, error) {
	dotenvOnce.Do(func() {
		// Missing .env is fine
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		return cached.(T), nil
	}

	cfg, err := env.ParseAs[T]()
	if err != nil {
		var zero T
		return zero, errors.Join(ErrParsingConfig, err)
	}

	cache[key] = cfg
	return cfg, nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any]() T {
	cfg, err := Load[T]()
	if err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return cfg
}

// Parse reads T from the process environment overlaid on the given env files, without caching.
// Values already set in the environment take precedence over the files.
func Parse[T any](files ...string) (T, error) {
	vars := make(map[string]string)
	if len(files) > 0 {
		fromFiles, err := godotenv.Read(files...)
		if err != nil {
			var zero T
			return zero, errors.Join(ErrReadingEnvFile, err)
		}
		for k, v := range fromFiles {
			vars[k] = v
		}
	}
	for k, v := range env.ToMap(os.Environ()) {
		vars[k] = v
	}

	cfg, err := env.ParseAsWithOptions[T](env.Options{Environment: vars})
	if err != nil {
		var zero T
		return zero, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}
