package models

import "time"

// Link is a bookmarked URL. ShortURL stays nil between the insert and the
// alias write that follows it in the same transaction.
type Link struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
	URL         string    `gorm:"not null" json:"url"`
	ShortURL    *string   `gorm:"column:shorturl;uniqueIndex" json:"shorturl"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Private     bool      `gorm:"not null;index" json:"private"`
}

// Alias returns the link's short alias, or "" before it has been assigned.
func (l Link) Alias() string {
	if l.ShortURL == nil {
		return ""
	}
	return *l.ShortURL
}
