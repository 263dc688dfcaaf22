package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "marks.db" {
		t.Errorf("Expected default database, got %s", cfg.DatabaseURL)
	}
	if cfg.Seed != 1000 {
		t.Errorf("Expected seed 1000, got %d", cfg.Seed)
	}
	if cfg.MaxConns != 4 {
		t.Errorf("Expected 4 connections, got %d", cfg.MaxConns)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("Expected 24h token TTL, got %s", cfg.TokenTTL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("Expected 15s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.AdminPassword != "" {
		t.Errorf("Expected no admin password hash, got %q", cfg.AdminPassword)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("SEED", "4242")
	t.Setenv("DB_MAX_CONNS", "8")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("DATABASE_URL", "postgres://marks@localhost/marks")
	t.Setenv("SITE_TITLE", "My marks")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" || cfg.Seed != 4242 || cfg.MaxConns != 8 {
		t.Errorf("Environment not applied: %+v", cfg)
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Errorf("Expected 90m token TTL, got %s", cfg.TokenTTL)
	}
	if cfg.DatabaseURL != "postgres://marks@localhost/marks" {
		t.Errorf("Unexpected database URL %s", cfg.DatabaseURL)
	}
	if cfg.Site.Title != "My marks" {
		t.Errorf("Expected site title from env, got %q", cfg.Site.Title)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("SECRET", "")

	_, err := Load()
	if !errors.Is(err, ErrMissingSecret) {
		t.Errorf("Expected ErrMissingSecret, got %v", err)
	}
}

func TestReadSkipsValidation(t *testing.T) {
	t.Setenv("SECRET", "")

	cfg, err := Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if cfg.Seed != 1000 {
		t.Errorf("Expected default seed, got %d", cfg.Seed)
	}
}

func TestLoadRejectsBadSeed(t *testing.T) {
	t.Setenv("SECRET", "s3cret")
	t.Setenv("SEED", "-5")

	_, err := Load()
	if !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("Expected ErrInvalidSeed, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Secret: "x", MaxConns: 0, TokenTTL: time.Hour}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero connections")
	}

	cfg.MaxConns = 1
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}
