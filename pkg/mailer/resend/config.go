package resend

// Config is parsed from the environment with caarlos0/env.
// An empty APIKey means no provider is configured.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"RESEND_FROM_EMAIL" envDefault:"library@example.com"`
	SenderName  string `env:"RESEND_FROM_NAME" envDefault:"Local Library"`
}

func (c Config) Enabled() bool { return c.APIKey != "" }
