package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Event is the kind of mutation recorded in the audit log
type Event int

const (
	EventCreated Event = iota + 1
	EventUpdated
	EventDeleted
	EventSettings
)

var eventNames = map[Event]string{
	EventCreated:  "CREATED",
	EventUpdated:  "UPDATED",
	EventDeleted:  "DELETED",
	EventSettings: "SETTINGS",
}

// ParseEvent returns the event with the given canonical name.
func ParseEvent(name string) (Event, error) {
	for e, n := range eventNames {
		if n == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", name)
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// MarshalText implements encoding.TextMarshaler
func (e Event) MarshalText() ([]byte, error) {
	name, ok := eventNames[e]
	if !ok {
		return nil, fmt.Errorf("unknown event %d", int(e))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (e *Event) UnmarshalText(text []byte) error {
	parsed, err := ParseEvent(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Value implements driver.Valuer. Events are stored by name.
func (e Event) Value() (driver.Value, error) {
	name, ok := eventNames[e]
	if !ok {
		return nil, fmt.Errorf("unknown event %d", int(e))
	}
	return name, nil
}

// Scan implements sql.Scanner
func (e *Event) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return e.UnmarshalText([]byte(v))
	case []byte:
		return e.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Event", src)
	}
}

// GormDataType stores events as strings
func (Event) GormDataType() string {
	return "string"
}

// HistoryEntry is one row of the audit log
type HistoryEntry struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	Event    Event     `gorm:"type:varchar(16);not null" json:"event"`
	Datetime time.Time `gorm:"not null;index" json:"datetime"`
}

// TableName keeps the audit table name stable
func (HistoryEntry) TableName() string {
	return "history"
}
