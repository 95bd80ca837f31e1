package config

import (
	"errors"
	"fmt"
	"time"

	"cryptolotto/internal/preferences"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config is the process configuration, read from the environment and an optional .env file.
type Config struct {
	HTTPAddr           string   `env:"HTTP_ADDR" envDefault:":8080"`
	GinMode            string   `env:"GIN_MODE" envDefault:"release"`
	Verbose            bool     `env:"VERBOSE" envDefault:"true"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	Session struct {
		Cookie          string        `env:"SESSION_COOKIE" envDefault:"lotto_session"`
		IdleTimeout     time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"1h"`
		JanitorInterval time.Duration `env:"JANITOR_INTERVAL" envDefault:"10m"`
	}

	Lottery struct {
		CreationFee        decimal.Decimal `env:"CREATION_FEE" envDefault:"1"`
		DefaultTicketPrice decimal.Decimal `env:"DEFAULT_TICKET_PRICE" envDefault:"5"`
	}

	Preferences struct {
		Backend     string `env:"PREFERENCES_BACKEND" envDefault:"bolt"`
		BoltPath    string `env:"PREFERENCES_BOLT_PATH" envDefault:"preferences.db"`
		RedisPrefix string `env:"PREFERENCES_REDIS_PREFIX" envDefault:"cryptolotto:"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// A missing .env is fine, the variables may be set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Preferences.Backend {
	case preferences.BackendMemory, preferences.BackendBolt, preferences.BackendRedis:
	default:
		return fmt.Errorf("unknown PREFERENCES_BACKEND %q", c.Preferences.Backend)
	}
	if c.Lottery.CreationFee.IsNegative() {
		return errors.New("CREATION_FEE must not be negative")
	}
	if !c.Lottery.DefaultTicketPrice.IsPositive() {
		return errors.New("DEFAULT_TICKET_PRICE must be greater than 0")
	}
	if c.Session.IdleTimeout <= 0 || c.Session.JanitorInterval <= 0 {
		return errors.New("SESSION_IDLE_TIMEOUT and JANITOR_INTERVAL must be positive")
	}
	return nil
}

// PreferenceOptions maps the config onto the preference store options.
func (c *Config) PreferenceOptions() preferences.Options {
	return preferences.Options{
		Backend:       c.Preferences.Backend,
		BoltPath:      c.Preferences.BoltPath,
		RedisAddr:     c.Redis.Addr,
		RedisPassword: c.Redis.Password,
		RedisDB:       c.Redis.DB,
		RedisPrefix:   c.Preferences.RedisPrefix,
	}
}
