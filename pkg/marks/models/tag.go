package models

import "time"

// Tag is a label that can be applied to any number of links
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
}

// LinkTag associates one tag with one link
type LinkTag struct {
	ID     uint `gorm:"primarykey" json:"id"`
	LinkID uint `gorm:"not null;index" json:"link_id"`
	TagID  uint `gorm:"not null;index" json:"tag_id"`
}

// TableName keeps the association table name stable
func (LinkTag) TableName() string {
	return "links_tags"
}
