package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Store kinds selected from DATABASE_URL.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config is the server configuration.
type Config struct {
	Env           string        `env:"APP_ENV" env-default:"development"`
	HTTPAddr      string        `env:"HTTP_ADDR" env-default:":8080"`
	DatabaseURL   string        `env:"DATABASE_URL" env-default:"memory"`
	Migrations    bool          `env:"MIGRATIONS" env-default:"true"`
	DefaultLocale string        `env:"DEFAULT_LOCALE" env-default:"en"`
	LogLevel      string        `env:"LOG_LEVEL" env-default:"info"`
	ReadTimeout   time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	IdleTimeout   time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`

	// Derived by validate.
	StoreKind  string
	SQLitePath string
}

// Load reads .env (optional) then the environment, and validates the result.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI, etc.).
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// validate checks DATABASE_URL and derives the store kind from its scheme.
func (c *Config) validate() error {
	if strings.TrimSpace(c.DefaultLocale) == "" {
		c.DefaultLocale = "en"
	}

	raw := strings.TrimSpace(c.DatabaseURL)
	if raw == "" || raw == StoreMemory {
		c.DatabaseURL = StoreMemory
		c.StoreKind = StoreMemory
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: DATABASE_URL invalid (%q): %w", raw, err)
	}
	switch parsed.Scheme {
	case "postgres", "postgresql":
		if parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL invalid (%q): missing host", raw)
		}
		c.StoreKind = StorePostgres
	case "sqlite", "sqlite3":
		path := parsed.Opaque
		if path == "" {
			path = parsed.Host + parsed.Path
		}
		if path == "" {
			return fmt.Errorf("config: DATABASE_URL invalid (%q): missing sqlite path", raw)
		}
		c.StoreKind = StoreSQLite
		c.SQLitePath = path
	default:
		return fmt.Errorf("config: DATABASE_URL invalid (%q): unsupported scheme %q", raw, parsed.Scheme)
	}
	return nil
}
