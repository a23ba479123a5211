package models

import "time"

// OTP is a short-lived one-time code issued for an email address. Multiple
// outstanding codes per email are allowed; each code is single-use.
type OTP struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Email string `gorm:"type:text;not null;index"` // Recipient email, not unique.
	Code  string `gorm:"type:text;not null"`       // Fixed-length uppercase hex code.

	ExpiresAt time.Time `gorm:"not null;index"` // Creation time plus the fixed validity window.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
