package httpserver

import (
	"cmp"
	"time"

	"github.com/dmitrymomot/subhub/pkg/logger"
)

// Config holds the HTTP_* settings. Zero values fall back to the defaults below.
type Config struct {
	Addr              string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`        // whole request, body included
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"` // headers only
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"` // keep-alive
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

var defaults = Config{
	Addr:              ":8080",
	ReadHeaderTimeout: 10 * time.Second,
	ShutdownTimeout:   5 * time.Second,
}

// withDefaults fills unset fields. Negative durations count as unset.
func (c Config) withDefaults() Config {
	positive := func(d, def time.Duration) time.Duration {
		if d > 0 {
			return d
		}
		return def
	}
	return Config{
		Addr:              cmp.Or(c.Addr, defaults.Addr),
		ReadTimeout:       positive(c.ReadTimeout, defaults.ReadTimeout),
		ReadHeaderTimeout: positive(c.ReadHeaderTimeout, defaults.ReadHeaderTimeout),
		WriteTimeout:      positive(c.WriteTimeout, defaults.WriteTimeout),
		IdleTimeout:       positive(c.IdleTimeout, defaults.IdleTimeout),
		ShutdownTimeout:   positive(c.ShutdownTimeout, defaults.ShutdownTimeout),
	}
}

// NewFromConfig creates a Server from cfg.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	s := &settings{Config: cfg.withDefaults(), logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return &Server{cfg: s}
}

// New creates a Server with the default Config.
func New(opts ...Option) *Server {
	return NewFromConfig(Config{}, opts...)
}
