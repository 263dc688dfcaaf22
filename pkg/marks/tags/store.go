// Package tags stores tag names and their link counts.
package tags

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mikepea/marks/pkg/marks/errs"
	"github.com/mikepea/marks/pkg/marks/history"
	"github.com/mikepea/marks/pkg/marks/models"
	"github.com/mikepea/marks/pkg/marks/paging"
	"gorm.io/gorm"
)

// Summary is a tag with the number of links carrying it
type Summary struct {
	Name        string `json:"name"`
	Occurrences int64  `json:"occurrences"`
}

// Store reads and writes tags
type Store struct {
	db      *gorm.DB
	history *history.Recorder
}

// NewStore creates a tag store. history may be nil.
func NewStore(db *gorm.DB, history *history.Recorder) *Store {
	return &Store{db: db, history: history}
}

// WithTx returns a store bound to an open transaction.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx, history: s.history}
}

func (s *Store) record(ctx context.Context, event models.Event) {
	if s.history != nil {
		s.history.Record(ctx, event)
	}
}

// GetOrInsert returns the tag called name, creating it if needed. Two callers
// racing on the same new name both get the one row that won the insert.
func (s *Store) GetOrInsert(ctx context.Context, name string) (models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Tag{}, fmt.Errorf("%w: empty tag name", errs.ErrValidation)
	}
	db := s.db.WithContext(ctx)

	var tag models.Tag
	err := db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Tag{}, err
	}

	// The insert runs in its own transaction, or in a savepoint when s is
	// already inside one, so a unique violation leaves the caller's
	// transaction usable for the lookup below.
	tag = models.Tag{Name: name}
	createErr := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&tag).Error
	})
	if createErr == nil {
		return tag, nil
	}

	var winner models.Tag
	if err := db.Where("name = ?", name).First(&winner).Error; err == nil {
		return winner, nil
	}
	return models.Tag{}, createErr
}

// summaries counts the links carrying each tag. With publicOnly set, private
// links are not counted and tags left with no link are omitted.
func summaries(db *gorm.DB, publicOnly bool) *gorm.DB {
	query := db.Table("tags").
		Select("tags.name AS name, COUNT(links_tags.id) AS occurrences")
	if !publicOnly {
		return query.
			Joins("LEFT JOIN links_tags ON links_tags.tag_id = tags.id").
			Group("tags.id, tags.name")
	}
	return query.
		Joins("LEFT JOIN links_tags ON links_tags.tag_id = tags.id AND "+
			"links_tags.link_id IN (SELECT links.id FROM links WHERE links.private = ?)", false).
		Group("tags.id, tags.name").
		Having("COUNT(links_tags.id) > 0")
}

// Read returns one tag and its link count. With publicOnly set, a tag only
// private links carry is not found.
func (s *Store) Read(ctx context.Context, name string, publicOnly bool) (Summary, error) {
	var rows []Summary
	err := summaries(s.db.WithContext(ctx), publicOnly).Where("tags.name = ?", name).Scan(&rows).Error
	if err != nil {
		return Summary{}, err
	}
	if len(rows) == 0 {
		return Summary{}, fmt.Errorf("%w: tag %q", errs.ErrNotFound, name)
	}
	return rows[0], nil
}

// Search lists tags alphabetically. Without publicOnly it includes tags no
// link carries.
func (s *Store) Search(ctx context.Context, page paging.Page, publicOnly bool) ([]Summary, error) {
	rows := []Summary{}
	err := summaries(s.db.WithContext(ctx), publicOnly).
		Order("tags.name ASC").
		Scopes(page.Scope).
		Scan(&rows).Error
	return rows, err
}

func (s *Store) find(tx *gorm.DB, name string) (models.Tag, error) {
	var tag models.Tag
	if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tag, fmt.Errorf("%w: tag %q", errs.ErrNotFound, name)
		}
		return tag, err
	}
	return tag, nil
}

// Rename changes a tag's name and returns the renamed tag. Every link
// carrying it follows.
func (s *Store) Rename(ctx context.Context, oldName, newName string) (Summary, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return Summary{}, fmt.Errorf("%w: empty tag name", errs.ErrValidation)
	}

	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tag, err := s.find(tx, oldName)
		if err != nil {
			return err
		}
		if tag.Name == newName {
			return nil
		}

		var taken int64
		if err := tx.Model(&models.Tag{}).Where("name = ?", newName).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return fmt.Errorf("%w: tag %q already exists", errs.ErrConflict, newName)
		}

		if err := tx.Model(&tag).Update("name", newName).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	if changed {
		s.record(ctx, models.EventUpdated)
	}
	return s.Read(ctx, newName, false)
}

// Delete removes a tag from every link and then the tag itself.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tag, err := s.find(tx, name)
		if err != nil {
			return err
		}
		if err := tx.Where("tag_id = ?", tag.ID).Delete(&models.LinkTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		return err
	}

	s.record(ctx, models.EventDeleted)
	return nil
}
