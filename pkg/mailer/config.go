package mailer

// Config is parsed from the environment with caarlos0/env.
type Config struct {
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Local Library"`
	DefaultLayout   string `env:"MAILER_DEFAULT_LAYOUT" envDefault:"base.html"`
	BaseURL         string `env:"MAILER_BASE_URL" envDefault:"http://localhost:8080"`
}
