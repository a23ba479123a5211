package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nimbus-apps/adminpanel/internal/models"
)

// RoleStore reads roles and the permission catalog.
type RoleStore struct {
	db *gorm.DB
}

// NewRoleStore constructs a RoleStore.
func NewRoleStore(db *gorm.DB) *RoleStore {
	return &RoleStore{db: db}
}

// List returns all roles with their permissions preloaded.
func (s *RoleStore) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	errFind := s.db.WithContext(ctx).Preload("Permissions").Order("id ASC").Find(&roles).Error
	if errFind != nil {
		return nil, fmt.Errorf("store: list roles: %w", errFind)
	}
	return roles, nil
}

// GetByName fetches a role by its unique name.
func (s *RoleStore) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	errFind := s.db.WithContext(ctx).Preload("Permissions").Where("name = ?", name).First(&role).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: role by name: %w", errFind)
	}
	return &role, nil
}

// PermissionNamesForRole returns the permission names granted to a role.
// A nil role ID yields an empty list.
func (s *RoleStore) PermissionNamesForRole(ctx context.Context, roleID *uint64) ([]string, error) {
	if roleID == nil {
		return []string{}, nil
	}
	var names []string
	errFind := s.db.WithContext(ctx).Model(&models.Permission{}).
		Joins("JOIN roles_permissions rp ON rp.permission_id = permissions.id").
		Where("rp.role_id = ?", *roleID).
		Order("permissions.name ASC").
		Pluck("permissions.name", &names).Error
	if errFind != nil {
		return nil, fmt.Errorf("store: role permissions: %w", errFind)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// ListPermissions returns the full permission catalog.
func (s *RoleStore) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var perms []models.Permission
	errFind := s.db.WithContext(ctx).Order("name ASC").Find(&perms).Error
	if errFind != nil {
		return nil, fmt.Errorf("store: list permissions: %w", errFind)
	}
	return perms, nil
}

// ReplacePermissions sets a role's permission grant list.
func (s *RoleStore) ReplacePermissions(ctx context.Context, roleID uint64, permissionNames []string) error {
	var role models.Role
	if errFind := s.db.WithContext(ctx).First(&role, roleID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("store: role by id: %w", errFind)
	}

	var perms []models.Permission
	if len(permissionNames) > 0 {
		if errFind := s.db.WithContext(ctx).Where("name IN ?", permissionNames).Find(&perms).Error; errFind != nil {
			return fmt.Errorf("store: permissions by name: %w", errFind)
		}
	}
	if errAssoc := s.db.WithContext(ctx).Model(&role).Association("Permissions").Replace(perms); errAssoc != nil {
		return fmt.Errorf("store: replace permissions: %w", errAssoc)
	}
	return nil
}
