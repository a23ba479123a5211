package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is a key/value row for system-wide settings exposed in the panel.
type Setting struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Key   string         `gorm:"type:text;not null;uniqueIndex"` // Unique setting key.
	Value datatypes.JSON `gorm:"type:jsonb"`                     // JSON-encoded value.

	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
