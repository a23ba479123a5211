package models

import (
	"time"

	"gorm.io/datatypes"
)

// MediaFolder is a node in the media library folder tree.
type MediaFolder struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name     string       `gorm:"type:text;not null"`  // Display name.
	ParentID *uint64      `gorm:"index"`               // Parent folder; nil for the root level.
	Parent   *MediaFolder `gorm:"foreignKey:ParentID"` // Parent folder.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// MediaFile is an uploaded file in the media library.
type MediaFile struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	FolderID *uint64      `gorm:"index"`               // Containing folder; nil for the root level.
	Folder   *MediaFolder `gorm:"foreignKey:FolderID"` // Containing folder.

	Name       string `gorm:"type:text;not null"`             // Display name, renameable.
	StoredName string `gorm:"type:text;not null;uniqueIndex"` // Name on disk, uuid plus extension.
	MimeType   string `gorm:"type:text"`                      // Detected content type.
	SizeBytes  int64  `gorm:"not null;default:0"`             // File size in bytes.

	Metadata datatypes.JSON `gorm:"type:jsonb"` // Optional attributes such as image dimensions.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
