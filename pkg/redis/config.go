package redis

import "time"

// Config holds Redis connection settings read from the environment.
type Config struct {
	URL           string        `env:"REDIS_URL"`
	PoolSize      int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns  int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}
