package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mikepea/marks/pkg/marks/config"
	"github.com/mikepea/marks/pkg/marks/database"
	"github.com/mikepea/marks/pkg/marks/history"
	"github.com/mikepea/marks/pkg/marks/links"
	"github.com/mikepea/marks/pkg/marks/models"
	"github.com/mikepea/marks/pkg/marks/shorturl"
	"github.com/mikepea/marks/pkg/marks/tags"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var errPurgeNotConfirmed = errors.New("refusing to purge without --yes")

func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(database.Options{
		URL:      cfg.DatabaseURL,
		MaxConns: max(cfg.MaxConns, 1),
		Logger:   slog.Default(),
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB()
			if err != nil {
				return err
			}
			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database migrations completed")
			return nil
		},
	}
}

func purgeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every link. Tags and history are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errPurgeNotConfirmed
			}

			cfg, db, err := openDB()
			if err != nil {
				return err
			}

			recorder := history.NewRecorder(db, slog.Default())
			store := links.NewStore(db, shorturl.New(cfg.Seed), tags.NewStore(db, recorder), nil, recorder)
			removed, err := store.Purge(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d links\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting every link")
	return cmd
}
