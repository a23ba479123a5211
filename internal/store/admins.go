// Package store holds the GORM-backed data access layer. Every method takes
// a context and returns plain errors; handlers map them to user-facing
// responses.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nimbus-apps/adminpanel/internal/models"
)

// Store errors surfaced to handlers.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotInvited indicates a conditional activation matched no invited row.
	ErrNotInvited = errors.New("account not invited")
	// ErrUsernameTaken indicates the desired username is already in use.
	ErrUsernameTaken = errors.New("username already taken")
)

// AdminStore reads and writes admin accounts.
type AdminStore struct {
	db *gorm.DB
}

// NewAdminStore constructs an AdminStore.
func NewAdminStore(db *gorm.DB) *AdminStore {
	return &AdminStore{db: db}
}

// GetByEmail fetches an admin by email with its role preloaded.
func (s *AdminStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	errFind := s.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&admin).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: admin by email: %w", errFind)
	}
	return &admin, nil
}

// GetByUsername fetches an admin by username.
func (s *AdminStore) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	errFind := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: admin by username: %w", errFind)
	}
	return &admin, nil
}

// GetByID fetches an admin by ID with its role preloaded.
func (s *AdminStore) GetByID(ctx context.Context, id uint64) (*models.Admin, error) {
	var admin models.Admin
	errFind := s.db.WithContext(ctx).Preload("Role").First(&admin, id).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: admin by id: %w", errFind)
	}
	return &admin, nil
}

// List returns all admins except soft-deleted ones, role preloaded.
func (s *AdminStore) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	errFind := s.db.WithContext(ctx).Preload("Role").
		Where("status <> ?", models.StatusDeleted).
		Order("id ASC").
		Find(&admins).Error
	if errFind != nil {
		return nil, fmt.Errorf("store: list admins: %w", errFind)
	}
	return admins, nil
}

// Invite creates a new account in invited status with only email and role set.
func (s *AdminStore) Invite(ctx context.Context, email string, roleID *uint64) (*models.Admin, error) {
	admin := models.Admin{
		Email:  email,
		Status: models.StatusInvited,
		RoleID: roleID,
	}
	if errCreate := s.db.WithContext(ctx).Create(&admin).Error; errCreate != nil {
		if errors.Is(errCreate, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("store: invite: email already exists: %w", errCreate)
		}
		return nil, fmt.Errorf("store: invite: %w", errCreate)
	}
	return &admin, nil
}

// ActivationFields carries the profile submitted at registration step 2.
type ActivationFields struct {
	Username     string
	PasswordHash string
	FirstName    string
	Surname      string
	DateOfBirth  string
	Position     string
}

// Activate finalizes registration: it sets username, password hash, profile
// fields and status=active in a single conditional update scoped to
// status=invited. A zero row count means the account left the invited state
// between registration steps and the attempt is rejected. The username
// unique constraint is the authoritative duplicate check; a prior SELECT is
// not trusted.
func (s *AdminStore) Activate(ctx context.Context, email string, fields ActivationFields) error {
	updates := map[string]any{
		"username": fields.Username,
		"password": fields.PasswordHash,
		"status":   models.StatusActive,
	}
	if fields.FirstName != "" {
		updates["first_name"] = fields.FirstName
	}
	if fields.Surname != "" {
		updates["surname"] = fields.Surname
	}
	if fields.DateOfBirth != "" {
		updates["date_of_birth"] = fields.DateOfBirth
	}
	if fields.Position != "" {
		updates["position"] = fields.Position
	}

	res := s.db.WithContext(ctx).Model(&models.Admin{}).
		Where("email = ? AND status = ?", email, models.StatusInvited).
		Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("store: activate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotInvited
	}
	return nil
}

// Update applies field updates to an admin by ID.
func (s *AdminStore) Update(ctx context.Context, id uint64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := s.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("store: update admin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastLogin records a successful login timestamp.
func (s *AdminStore) TouchLastLogin(ctx context.Context, id uint64) error {
	errUpdate := s.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now().UTC()).Error
	if errUpdate != nil {
		return fmt.Errorf("store: touch last login: %w", errUpdate)
	}
	return nil
}
