package models

import "time"

// Admin account statuses.
const (
	// StatusInvited marks an account created by invitation, awaiting registration.
	StatusInvited = "invited"
	// StatusActive marks an account that can sign in.
	StatusActive = "active"
	// StatusBanned marks an account blocked by an administrator.
	StatusBanned = "banned"
	// StatusPending marks an account awaiting review.
	StatusPending = "pending"
	// StatusOutOfOffice marks a temporarily inactive account.
	StatusOutOfOffice = "out-of-office"
	// StatusDeleted marks a soft-deleted account.
	StatusDeleted = "deleted"
)

// Admin represents a back-office administrator account.
type Admin struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Email    string  `gorm:"type:text;not null;uniqueIndex"` // Unique invitation email.
	Username *string `gorm:"type:text;uniqueIndex"`          // Unique login name; nil until registration completes.
	Password *string `gorm:"type:text"`                      // Hashed password; nil until registration completes.

	Status string `gorm:"type:text;not null;default:invited"` // Account lifecycle status.

	FirstName   *string `gorm:"type:text"` // Optional profile field.
	Surname     *string `gorm:"type:text"` // Optional profile field.
	DateOfBirth *string `gorm:"type:text"` // Optional profile field, ISO date string.
	Position    *string `gorm:"type:text"` // Optional profile field.

	RoleID *uint64 `gorm:"index"`             // Assigned role ID, at most one.
	Role   *Role   `gorm:"foreignKey:RoleID"` // Assigned role.

	LastLoginAt *time.Time // Set on every successful login, never read elsewhere.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// CanLogin reports whether the account is usable for login.
func (a Admin) CanLogin() bool {
	return a.Status == StatusActive && a.Username != nil && a.Password != nil
}

// RoleName returns the assigned role name, or the fallback for roleless accounts.
func (a Admin) RoleName() string {
	if a.Role != nil && a.Role.Name != "" {
		return a.Role.Name
	}
	return "user"
}
