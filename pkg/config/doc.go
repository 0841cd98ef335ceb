// Package config loads typed configuration from environment variables.
//
// Structs declare their variables with caarlos0/env tags:
//
//	type Config struct {
//		Env     string `env:"APP_ENV" envDefault:"development"`
//		Storage string `env:"STORAGE_DRIVER" envDefault:"memory"`
//	}
//
// Load parses a type once and serves the cached copy on later calls, so every
// component can ask for its own config struct without re-reading the environment.
// Parse skips the cache and can overlay env files, which is what tests use.
package config
