// Package links stores bookmarks, their aliases and their tags.
package links

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikepea/marks/pkg/marks/errs"
	"github.com/mikepea/marks/pkg/marks/history"
	"github.com/mikepea/marks/pkg/marks/metatag"
	"github.com/mikepea/marks/pkg/marks/models"
	"github.com/mikepea/marks/pkg/marks/shorturl"
	"github.com/mikepea/marks/pkg/marks/tags"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MetadataLoader fetches page metadata for new links.
type MetadataLoader interface {
	Load(ctx context.Context, url string) (*metatag.Metatag, error)
}

// Bookmark is a link together with the names of its tags.
type Bookmark struct {
	models.Link
	Tags []string `json:"tags"`
}

// CreateInput describes a new link. Nil fields are unset: Title, Description
// and Tags are then taken from the page, Private falls back to the store's
// default and the timestamps to now.
type CreateInput struct {
	URL         string
	Title       *string
	Description *string
	Tags        []string
	Private     *bool
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

// UpdateInput lists the fields to change. Nil fields are left alone; a
// non-nil Tags replaces the whole tag set.
type UpdateInput struct {
	URL         *string
	Title       *string
	Description *string
	Private     *bool
	Tags        *[]string
}

// Store reads and writes links
type Store struct {
	db      *gorm.DB
	codec   *shorturl.Codec
	tags    *tags.Store
	meta    MetadataLoader
	history *history.Recorder
	now     func() time.Time

	defaultPrivate func(ctx context.Context) bool
}

// NewStore creates a link store. meta and history may be nil; without a
// loader, creating a link requires title, description and tags.
func NewStore(db *gorm.DB, codec *shorturl.Codec, tagStore *tags.Store, meta MetadataLoader, history *history.Recorder) *Store {
	return &Store{
		db:      db,
		codec:   codec,
		tags:    tagStore,
		meta:    meta,
		history: history,
		now:     time.Now,

		defaultPrivate: func(context.Context) bool { return true },
	}
}

// SetDefaultPrivate sets where the private flag of links created without
// one comes from. Until it is called such links are private.
func (s *Store) SetDefaultPrivate(f func(ctx context.Context) bool) {
	s.defaultPrivate = f
}

func (s *Store) record(ctx context.Context, event models.Event) {
	if s.history != nil {
		s.history.Record(ctx, event)
	}
}

func notFound(id uint) error {
	return fmt.Errorf("%w: link %d", errs.ErrNotFound, id)
}

// Create stores a new link and returns it with its alias and tags.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Bookmark, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", errs.ErrValidation)
	}

	var title, description string
	var tagNames []string
	if in.Title != nil {
		title = *in.Title
	}
	if in.Description != nil {
		description = *in.Description
	}
	if in.Tags != nil {
		tagNames = in.Tags
	}

	if in.Title == nil || in.Description == nil || in.Tags == nil {
		if s.meta == nil {
			return nil, fmt.Errorf("%w: no metadata loader configured", errs.ErrFetch)
		}
		meta, err := s.meta.Load(ctx, url)
		if err != nil {
			return nil, err
		}
		if in.Title == nil {
			title = meta.Title
		}
		if in.Description == nil {
			description = meta.Description
		}
		if in.Tags == nil {
			tagNames = meta.Tags
		}
	}

	now := s.now().UTC()
	link := models.Link{
		URL:         url,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Private != nil {
		link.Private = *in.Private
	} else {
		link.Private = s.defaultPrivate(ctx)
	}
	if in.CreatedAt != nil {
		link.CreatedAt = in.CreatedAt.UTC()
	}
	if in.UpdatedAt != nil {
		link.UpdatedAt = in.UpdatedAt.UTC()
	}

	var names []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&link).Error; err != nil {
			return err
		}

		// The alias is derived from the identity the insert just assigned.
		alias := s.codec.Encode(uint64(link.ID))
		if err := tx.Model(&link).UpdateColumn("shorturl", alias).Error; err != nil {
			return err
		}
		link.ShortURL = &alias

		var err error
		names, err = s.attach(ctx, tx, link.ID, tagNames)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, models.EventCreated)
	return &Bookmark{Link: link, Tags: names}, nil
}

// attach tags the link with each distinct name and returns the names in the
// order they were attached.
func (s *Store) attach(ctx context.Context, tx *gorm.DB, linkID uint, tagNames []string) ([]string, error) {
	names := []string{}
	seenNames := make(map[string]bool)
	seenIDs := make(map[uint]bool)
	tagStore := s.tags.WithTx(tx)

	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" || seenNames[name] {
			continue
		}
		seenNames[name] = true

		tag, err := tagStore.GetOrInsert(ctx, name)
		if err != nil {
			return nil, err
		}
		if seenIDs[tag.ID] {
			continue
		}
		seenIDs[tag.ID] = true

		if err := tx.Create(&models.LinkTag{LinkID: linkID, TagID: tag.ID}).Error; err != nil {
			return nil, err
		}
		names = append(names, tag.Name)
	}
	return names, nil
}

// tagNames loads the tag names of each link, in attachment order.
func tagNames(db *gorm.DB, linkIDs []uint) (map[uint][]string, error) {
	result := make(map[uint][]string, len(linkIDs))
	if len(linkIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		LinkID uint
		Name   string
	}
	err := db.Table("links_tags").
		Select("links_tags.link_id AS link_id, tags.name AS name").
		Joins("JOIN tags ON tags.id = links_tags.tag_id").
		Where("links_tags.link_id IN ?", linkIDs).
		Order("links_tags.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		result[r.LinkID] = append(result[r.LinkID], r.Name)
	}
	return result, nil
}

func (s *Store) withTags(db *gorm.DB, links []models.Link) ([]Bookmark, error) {
	ids := make([]uint, len(links))
	for i, l := range links {
		ids[i] = l.ID
	}
	names, err := tagNames(db, ids)
	if err != nil {
		return nil, err
	}

	bookmarks := make([]Bookmark, len(links))
	for i, l := range links {
		bookmarks[i] = Bookmark{Link: l, Tags: names[l.ID]}
		if bookmarks[i].Tags == nil {
			bookmarks[i].Tags = []string{}
		}
	}
	return bookmarks, nil
}

func (s *Store) first(db *gorm.DB, query *gorm.DB, notFoundErr error) (*Bookmark, error) {
	var link models.Link
	if err := query.First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr
		}
		return nil, err
	}

	bookmarks, err := s.withTags(db, []models.Link{link})
	if err != nil {
		return nil, err
	}
	return &bookmarks[0], nil
}

// Read returns the link with the given id.
func (s *Store) Read(ctx context.Context, id uint) (*Bookmark, error) {
	db := s.db.WithContext(ctx)
	return s.first(db, db.Where("id = ?", id), notFound(id))
}

// ReadByAlias returns the link whose alias is alias. Strings that do not
// decode, or decode to an identity whose stored alias differs, are not found.
func (s *Store) ReadByAlias(ctx context.Context, alias string) (*Bookmark, error) {
	id, err := s.codec.Decode(alias)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrNotFound, err)
	}

	db := s.db.WithContext(ctx)
	return s.first(db, db.Where("id = ? AND shorturl = ?", id, alias),
		fmt.Errorf("%w: alias %q", errs.ErrNotFound, alias))
}

// Update changes the supplied fields of a link. The alias never changes.
func (s *Store) Update(ctx context.Context, id uint, in UpdateInput) (*Bookmark, error) {
	if in.URL != nil && strings.TrimSpace(*in.URL) == "" {
		return nil, fmt.Errorf("%w: url must not be empty", errs.ErrValidation)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link models.Link
		if err := tx.First(&link, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(id)
			}
			return err
		}

		updates := map[string]interface{}{"updated_at": s.now().UTC()}
		if in.URL != nil {
			updates["url"] = strings.TrimSpace(*in.URL)
		}
		if in.Title != nil {
			updates["title"] = *in.Title
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.Private != nil {
			updates["private"] = *in.Private
		}
		if err := tx.Model(&link).Updates(updates).Error; err != nil {
			return err
		}

		if in.Tags != nil {
			if err := tx.Where("link_id = ?", id).Delete(&models.LinkTag{}).Error; err != nil {
				return err
			}
			if _, err := s.attach(ctx, tx, id, *in.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, models.EventUpdated)
	return s.Read(ctx, id)
}

// Delete removes a link and its tag associations.
func (s *Store) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", id).Delete(&models.LinkTag{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Link{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound(id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.record(ctx, models.EventDeleted)
	return nil
}

// Purge removes every link and association and returns the number of links
// removed. Tags are kept.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.LinkTag{}).Error; err != nil {
			return err
		}
		result := tx.Where("1 = 1").Delete(&models.Link{})
		removed = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, err
	}

	s.record(ctx, models.EventDeleted)
	return removed, nil
}

// Search returns the links matching f, in id order.
func (s *Store) Search(ctx context.Context, f Filter) ([]Bookmark, error) {
	db := s.db.WithContext(ctx)

	var links []models.Link
	err := db.Model(&models.Link{}).
		Clauses(clause.Where{Exprs: []clause.Expression{f.Compile()}}).
		Scopes(f.Page.Scope).
		Order("links.id ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	return s.withTags(db, links)
}

// Counts returns the total number of links and how many of them are private.
func (s *Store) Counts(ctx context.Context) (total, private int64, err error) {
	db := s.db.WithContext(ctx).Model(&models.Link{})
	if err = db.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = s.db.WithContext(ctx).Model(&models.Link{}).Where("private = ?", true).Count(&private).Error
	return total, private, err
}
