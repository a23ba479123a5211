package models

import "time"

// Role bundles permissions for assignment to admin accounts.
type Role struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name        string `gorm:"type:text;not null;uniqueIndex"` // Unique role name.
	Description string `gorm:"type:text"`                      // Human-readable description.

	Permissions []Permission `gorm:"many2many:roles_permissions"` // Granted permissions.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// Permission is a named capability checked by the authorization gate.
type Permission struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name        string `gorm:"type:text;not null;uniqueIndex"` // Unique permission key, e.g. "media.delete".
	Description string `gorm:"type:text"`                      // Human-readable description.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
