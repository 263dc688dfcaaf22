package models

import (
	"encoding/json"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestAutoMigrate(t *testing.T) {
	db := setupTestDB(t)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	tables := []string{"links", "tags", "links_tags", "history", "settings"}
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %s to exist", table)
		}
	}

	if !db.Migrator().HasColumn(&Link{}, "shorturl") {
		t.Error("Expected links.shorturl column")
	}
}

func TestLinkShortURLUniqueButNullable(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	// Several links may sit without an alias at once.
	for i := 0; i < 3; i++ {
		link := Link{URL: "https://example.com", Private: true}
		if err := db.Create(&link).Error; err != nil {
			t.Fatalf("Failed to create link without alias: %v", err)
		}
		if link.Alias() != "" {
			t.Errorf("Expected empty alias, got %q", link.Alias())
		}
	}

	alias := "abc"
	if err := db.Create(&Link{URL: "https://a.example", ShortURL: &alias}).Error; err != nil {
		t.Fatalf("Failed to create link with alias: %v", err)
	}
	if err := db.Create(&Link{URL: "https://b.example", ShortURL: &alias}).Error; err == nil {
		t.Error("Expected error when reusing an alias")
	}
}

func TestTagNameUnique(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	if err := db.Create(&Tag{Name: "go"}).Error; err != nil {
		t.Fatalf("Failed to create tag: %v", err)
	}
	if err := db.Create(&Tag{Name: "go"}).Error; err == nil {
		t.Error("Expected error when creating duplicate tag")
	}
}

func TestLinkPrivateFalsePersists(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	link := Link{URL: "https://example.com", Private: false}
	db.Create(&link)

	var got Link
	db.First(&got, link.ID)
	if got.Private {
		t.Error("Expected link to stay public")
	}
}

func TestEventPersistence(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	now := time.Now().UTC()
	for _, e := range []Event{EventCreated, EventUpdated, EventDeleted, EventSettings} {
		if err := db.Create(&HistoryEntry{Event: e, Datetime: now}).Error; err != nil {
			t.Fatalf("Failed to record %s: %v", e, err)
		}
	}

	var names []string
	db.Raw("SELECT event FROM history ORDER BY id").Scan(&names)
	want := []string{"CREATED", "UPDATED", "DELETED", "SETTINGS"}
	for i := range want {
		if i >= len(names) || names[i] != want[i] {
			t.Fatalf("Expected stored names %v, got %v", want, names)
		}
	}

	var entries []HistoryEntry
	db.Order("id").Find(&entries)
	if len(entries) != 4 || entries[3].Event != EventSettings {
		t.Errorf("Unexpected entries after scan: %+v", entries)
	}
}

func TestEventRejectsUnknown(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	if err := db.Create(&HistoryEntry{Event: Event(42), Datetime: time.Now()}).Error; err == nil {
		t.Error("Expected error when storing an unknown event")
	}

	db.Exec("INSERT INTO history (event, datetime) VALUES (?, ?)", "EXPLODED", time.Now())
	var entry HistoryEntry
	if err := db.First(&entry).Error; err == nil {
		t.Error("Expected error when scanning an unknown event name")
	}
}

func TestEventJSON(t *testing.T) {
	data, err := json.Marshal(HistoryEntry{ID: 1, Event: EventDeleted})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]any
	json.Unmarshal(data, &decoded)
	if decoded["event"] != "DELETED" {
		t.Errorf("Expected event DELETED, got %v", decoded["event"])
	}

	var e Event
	if err := json.Unmarshal([]byte(`"UPDATED"`), &e); err != nil || e != EventUpdated {
		t.Errorf("Expected UPDATED, got %v (%v)", e, err)
	}
	if err := json.Unmarshal([]byte(`"updated"`), &e); err == nil {
		t.Error("Expected lowercase event name to be rejected")
	}
}

func TestSettingsPlugins(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	db.Create(&Settings{ID: SettingsID, Title: "marks", EnabledPlugins: []string{"archive", "preview"}})

	var got Settings
	if err := db.First(&got, SettingsID).Error; err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}
	if len(got.EnabledPlugins) != 2 || got.EnabledPlugins[1] != "preview" {
		t.Errorf("Unexpected plugins %v", got.EnabledPlugins)
	}
}
