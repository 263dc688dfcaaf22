package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/marks/pkg/marks/config"
	"github.com/mikepea/marks/pkg/marks/database"
	"github.com/mikepea/marks/pkg/marks/metatag"
	"github.com/mikepea/marks/pkg/marks/models"
	"github.com/mikepea/marks/pkg/marks/server"
)

// @title Marks API
// @version 1.0
// @description A personal bookmark catalog with tags, search and short aliases.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Signed token from /auth/token. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(database.Options{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.MaxConns,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := models.AutoMigrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("Database migrations completed")

	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD_HASH is not set, token endpoint disabled")
	}

	loader := metatag.NewLoader(cfg.FetchTimeout, cfg.UserAgent)
	r := server.New(cfg, db, logger, loader)

	logger.Info("Starting marks server", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
