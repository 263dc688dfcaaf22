// Package config loads the server settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime settings. It is read once at startup and not
// modified afterwards.
type Config struct {
	Port           string
	DatabaseURL    string
	MaxConns       int
	Seed           uint64
	Secret         string
	TokenTTL       time.Duration
	AdminPassword  string // bcrypt hash
	FetchTimeout   time.Duration
	UserAgent      string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
	GinMode        string

	Site Site
}

// Site holds the defaults for the settings row created on first start.
type Site struct {
	Title      string
	HeaderLink string
	Timezone   string
}

var (
	ErrMissingSecret = errors.New("SECRET must be set")
	ErrInvalidSeed   = errors.New("SEED must be a non-negative integer")
)

func defaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "marks.db")
	v.SetDefault("db_max_conns", 4)
	v.SetDefault("seed", "1000")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("fetch_timeout", "10s")
	v.SetDefault("user_agent", "")
	v.SetDefault("request_timeout", "15s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("site_title", "marks")
	v.SetDefault("site_header_link", "")
	v.SetDefault("site_timezone", "UTC")
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads the configuration without validating it, for tools that need
// only part of it.
func Read() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	// SECRET and ADMIN_PASSWORD_HASH have no default, so bind them explicitly.
	_ = v.BindEnv("secret")
	_ = v.BindEnv("admin_password_hash")

	seed, err := strconv.ParseUint(v.GetString("seed"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, v.GetString("seed"))
	}

	cfg := &Config{
		Port:           v.GetString("port"),
		DatabaseURL:    v.GetString("database_url"),
		MaxConns:       v.GetInt("db_max_conns"),
		Seed:           seed,
		Secret:         v.GetString("secret"),
		TokenTTL:       v.GetDuration("token_ttl"),
		AdminPassword:  v.GetString("admin_password_hash"),
		FetchTimeout:   v.GetDuration("fetch_timeout"),
		UserAgent:      v.GetString("user_agent"),
		RequestTimeout: v.GetDuration("request_timeout"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
		GinMode:        v.GetString("gin_mode"),
		Site: Site{
			Title:      v.GetString("site_title"),
			HeaderLink: v.GetString("site_header_link"),
			Timezone:   v.GetString("site_timezone"),
		},
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return ErrMissingSecret
	}
	if c.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1, got %d", c.MaxConns)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}
