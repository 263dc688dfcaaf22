// Package history keeps the audit log of catalog mutations.
package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/mikepea/marks/pkg/marks/models"
	"github.com/mikepea/marks/pkg/marks/paging"
	"gorm.io/gorm"
)

// Recorder appends events to the audit log.
type Recorder struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder creates a recorder writing to db.
func NewRecorder(db *gorm.DB, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{db: db, logger: logger, now: time.Now}
}

// Record appends event with the current time. It is called after the
// mutation it describes has committed, and a failure here never undoes or
// fails that mutation: it is logged and dropped.
func (r *Recorder) Record(ctx context.Context, event models.Event) {
	entry := models.HistoryEntry{Event: event, Datetime: r.now().UTC()}

	// The caller's request may already be finishing; the write must not be
	// cancelled with it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		r.logger.Warn("Failed to record history", "event", event.String(), "error", err)
	}
}

// Search returns entries strictly after since (all entries when since is nil),
// oldest first.
func (r *Recorder) Search(ctx context.Context, since *time.Time, page paging.Page) ([]models.HistoryEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.HistoryEntry{})
	if since != nil {
		query = query.Where("datetime > ?", since.UTC())
	}

	entries := []models.HistoryEntry{}
	err := query.Scopes(page.Scope).Order("datetime ASC").Order("id ASC").Find(&entries).Error
	return entries, err
}
