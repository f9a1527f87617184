package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is populated from the environment. Every field has a usable
// default except the SendGrid credentials, which are optional: without
// an API key the server logs notifications instead of sending them.
type Config struct {
	Addr           string        `env:"ADDR"             envDefault:":8080"`
	DBPath         string        `env:"DB_PATH"          envDefault:"blog.db"`
	MediaDir       string        `env:"MEDIA_DIR"        envDefault:"media"`
	StaticDir      string        `env:"STATIC_DIR"       envDefault:"web/static"`
	TemplateDir    string        `env:"TEMPLATE_DIR"     envDefault:"web/templates"`
	CookieName     string        `env:"COOKIE_NAME"      envDefault:"session_id"`
	SessionTTL     time.Duration `env:"SESSION_TTL"      envDefault:"24h"`
	SendGridAPIKey string        `env:"SENDGRID_API_KEY"`
	EmailFrom      string        `env:"EMAIL_FROM"       envDefault:"no-reply@blog.local"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
