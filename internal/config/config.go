// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting of the server and worker.
type Config struct {
	Port       int    `env:"PORT"        envDefault:"8080"`
	DBPath     string `env:"DB_PATH"     envDefault:"./data/financezz.db"`
	StaticPath string `env:"STATIC_PATH" envDefault:"./web/static"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	TZ        string        `env:"TZ"        envDefault:"UTC"`

	WorkerInterval time.Duration `env:"WORKER_INTERVAL" envDefault:"1m"`
	PlansFile      string        `env:"PLANS_FILE"`

	CheckoutURL          string        `env:"CHECKOUT_URL"`
	CheckoutSuccessURL   string        `env:"CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL    string        `env:"CHECKOUT_CANCEL_URL"`
	BillingWebhookSecret string        `env:"BILLING_WEBHOOK_SECRET"`
	PremiumPeriod        time.Duration `env:"PREMIUM_PERIOD" envDefault:"720h"`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"1"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" envDefault:"5"`

	SentryDSN   string   `env:"SENTRY_DSN"`
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`
}

// Load reads a .env file when one exists and then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.WorkerInterval <= 0 {
		return errors.New("WORKER_INTERVAL must be positive")
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		return errors.New("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TZ.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", c.TZ, err)
	}
	return loc, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
