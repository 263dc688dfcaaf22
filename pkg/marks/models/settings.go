package models

import "time"

// SettingsID is the primary key of the single settings row
const SettingsID = 1

// Settings holds site-wide presentation settings
type Settings struct {
	ID                  uint      `gorm:"primarykey" json:"-"`
	Title               string    `json:"title"`
	HeaderLink          string    `json:"header_link"`
	Timezone            string    `json:"timezone"`
	EnabledPlugins      []string  `gorm:"serializer:json" json:"enabled_plugins"`
	DefaultPrivateLinks bool      `gorm:"not null" json:"default_private_links"`
	UpdatedAt           time.Time `json:"updated_at"`
}
