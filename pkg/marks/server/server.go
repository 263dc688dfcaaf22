// Package server assembles the HTTP router from the feature packages.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/marks/pkg/marks/auth"
	"github.com/mikepea/marks/pkg/marks/config"
	"github.com/mikepea/marks/pkg/marks/history"
	"github.com/mikepea/marks/pkg/marks/importexport"
	"github.com/mikepea/marks/pkg/marks/info"
	"github.com/mikepea/marks/pkg/marks/links"
	"github.com/mikepea/marks/pkg/marks/redirect"
	"github.com/mikepea/marks/pkg/marks/shorturl"
	"github.com/mikepea/marks/pkg/marks/tags"
	"gorm.io/gorm"
)

// New wires the stores to db and returns the router. loader fetches page
// metadata for new links; with a nil loader links must be created complete.
func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger, loader links.MetadataLoader) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	recorder := history.NewRecorder(db, logger)
	tagStore := tags.NewStore(db, recorder)
	linkStore := links.NewStore(db, shorturl.New(cfg.Seed), tagStore, loader, recorder)
	infoService := info.NewService(db, linkStore, recorder, cfg.Site)
	linkStore.SetDefaultPrivate(infoService.DefaultPrivateLinks)

	gate := auth.NewGate(cfg.Secret, cfg.TokenTTL)

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(logger), Timeout(cfg.RequestTimeout))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth.NewHandler(gate, cfg.AdminPassword).RegisterRoutes(api.Group("/auth"))

		optional := api.Group("", gate.OptionalAuth())
		required := api.Group("", gate.RequireAuth())

		linksHandler := links.NewHandler(linkStore)
		linksHandler.RegisterRoutes(optional)
		linksHandler.RegisterWriteRoutes(required)

		tagsHandler := tags.NewHandler(tagStore)
		tagsHandler.RegisterRoutes(optional)
		tagsHandler.RegisterWriteRoutes(required)

		history.NewHandler(recorder).RegisterRoutes(required)
		info.NewHandler(infoService).RegisterRoutes(required)
		importexport.NewHandler(linkStore).RegisterRoutes(required)
	}

	// Redirect routes (public, must be registered LAST to avoid conflicts)
	redirect.NewHandler(linkStore).RegisterRoutes(r)

	return r
}
