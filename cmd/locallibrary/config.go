package main

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/locallibrary"
	"github.com/dmitrymomot/locallibrary/pkg/db"
	"github.com/dmitrymomot/locallibrary/pkg/logger"
	"github.com/dmitrymomot/locallibrary/pkg/mailer"
	"github.com/dmitrymomot/locallibrary/pkg/mailer/resend"
	"github.com/dmitrymomot/locallibrary/pkg/redis"
)

// Config is the whole process configuration, read from the environment.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Genre and language lists change rarely.
	ChoicesTTL time.Duration `env:"CHOICES_CACHE_TTL" envDefault:"10m"`
	JobWorkers int           `env:"JOB_WORKERS" envDefault:"10"`

	App    locallibrary.Config
	DB     db.Config
	Redis  redis.Config
	Log    logger.Config
	Sentry logger.SentryConfig
	Mailer mailer.Config
	Resend resend.Config
}

// loadConfig reads .env files, when present, then the environment.
func loadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	return env.ParseAs[Config]()
}
