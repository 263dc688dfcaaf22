// Package database opens the GORM connection pool shared by the stores.
package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options configures Connect.
type Options struct {
	URL      string
	MaxConns int
	Logger   *slog.Logger
}

// Dialector picks the GORM driver for url. postgres:// and postgresql://
// URLs go to PostgreSQL, anything else is treated as a SQLite DSN.
func Dialector(url string) gorm.Dialector {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return postgres.Open(url)
	}
	return sqlite.Open(url)
}

// Connect opens the database and sizes its pool.
func Connect(opts Options) (*gorm.DB, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	db, err := gorm.Open(Dialector(opts.URL), &gorm.Config{
		Logger: logger.New(slogWriter{opts.Logger}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting connection pool: %w", err)
	}
	if opts.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxConns)
		sqlDB.SetMaxIdleConns(opts.MaxConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	opts.Logger.Info("Connected to database", "driver", db.Dialector.Name(), "max_conns", opts.MaxConns)
	return db, nil
}

// slogWriter routes GORM's log lines through slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}
