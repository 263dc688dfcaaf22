// Package info serves the site settings and the catalog counters.
package info

import (
	"context"
	"fmt"
	"time"

	"github.com/mikepea/marks/pkg/marks/config"
	"github.com/mikepea/marks/pkg/marks/errs"
	"github.com/mikepea/marks/pkg/marks/history"
	"github.com/mikepea/marks/pkg/marks/links"
	"github.com/mikepea/marks/pkg/marks/models"
	"gorm.io/gorm"
)

// Info is the summary returned by GET /info.
type Info struct {
	GlobalCounter  int64           `json:"global_counter"`
	PrivateCounter int64           `json:"private_counter"`
	Settings       models.Settings `json:"settings"`
}

// SettingsInput lists the settings to change. Nil fields are left alone.
type SettingsInput struct {
	Title               *string   `json:"title"`
	HeaderLink          *string   `json:"header_link"`
	Timezone            *string   `json:"timezone"`
	EnabledPlugins      *[]string `json:"enabled_plugins"`
	DefaultPrivateLinks *bool     `json:"default_private_links"`
}

// Service reads and writes the settings row.
type Service struct {
	db      *gorm.DB
	links   *links.Store
	history *history.Recorder
	site    config.Site
}

// NewService creates a settings service. site supplies the values of the
// settings row when it does not exist yet.
func NewService(db *gorm.DB, linkStore *links.Store, history *history.Recorder, site config.Site) *Service {
	return &Service{db: db, links: linkStore, history: history, site: site}
}

func (s *Service) defaults() models.Settings {
	return models.Settings{
		Title:               s.site.Title,
		HeaderLink:          s.site.HeaderLink,
		Timezone:            s.site.Timezone,
		EnabledPlugins:      []string{},
		DefaultPrivateLinks: true,
	}
}

// Settings returns the settings, creating the row on first use.
func (s *Service) Settings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := s.db.WithContext(ctx).
		Where(models.Settings{ID: models.SettingsID}).
		Attrs(s.defaults()).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	if settings.EnabledPlugins == nil {
		settings.EnabledPlugins = []string{}
	}
	return &settings, nil
}

// UpdateSettings applies in and returns the stored settings.
func (s *Service) UpdateSettings(ctx context.Context, in SettingsInput) (*models.Settings, error) {
	if in.Timezone != nil {
		if _, err := time.LoadLocation(*in.Timezone); err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q", errs.ErrValidation, *in.Timezone)
		}
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		settings.Title = *in.Title
	}
	if in.HeaderLink != nil {
		settings.HeaderLink = *in.HeaderLink
	}
	if in.Timezone != nil {
		settings.Timezone = *in.Timezone
	}
	if in.EnabledPlugins != nil {
		settings.EnabledPlugins = *in.EnabledPlugins
		if settings.EnabledPlugins == nil {
			settings.EnabledPlugins = []string{}
		}
	}
	if in.DefaultPrivateLinks != nil {
		settings.DefaultPrivateLinks = *in.DefaultPrivateLinks
	}

	if err := s.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, err
	}

	if s.history != nil {
		s.history.Record(ctx, models.EventSettings)
	}
	return settings, nil
}

// Info returns the link counters together with the settings.
func (s *Service) Info(ctx context.Context) (*Info, error) {
	total, private, err := s.links.Counts(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return &Info{GlobalCounter: total, PrivateCounter: private, Settings: *settings}, nil
}

// DefaultPrivateLinks reports whether new links without an explicit flag are
// private. It falls back to true when the settings cannot be read.
func (s *Service) DefaultPrivateLinks(ctx context.Context) bool {
	settings, err := s.Settings(ctx)
	if err != nil {
		return true
	}
	return settings.DefaultPrivateLinks
}
