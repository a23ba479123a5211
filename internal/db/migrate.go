package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nimbus-apps/adminpanel/internal/models"
)

// Migrate runs schema migrations and seeds the permission catalog.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errMigrate := conn.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.Admin{},
		&models.OTP{},
		&models.MediaFolder{},
		&models.MediaFile{},
		&models.Setting{},
	); errMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errMigrate)
	}
	return seedPermissions(conn)
}

// permissionCatalog lists the permission keys known to the panel.
var permissionCatalog = []models.Permission{
	{Name: "media.view", Description: "Browse the media library"},
	{Name: "media.upload", Description: "Upload media files"},
	{Name: "media.edit", Description: "Rename media files and folders"},
	{Name: "media.delete", Description: "Delete media files and folders"},
	{Name: "admins.view", Description: "View admin accounts"},
	{Name: "admins.manage", Description: "Invite and update admin accounts"},
	{Name: "roles.view", Description: "View roles and permissions"},
	{Name: "roles.manage", Description: "Edit roles and their permissions"},
	{Name: "settings.view", Description: "View system settings"},
	{Name: "settings.manage", Description: "Edit system settings"},
}

// superAdminRole is the seeded role holding every permission.
const superAdminRole = "Super Admin"

// seedPermissions inserts missing catalog permissions and ensures the
// Super Admin role exists with all of them. Existing rows are left alone so
// operator edits survive restarts.
func seedPermissions(conn *gorm.DB) error {
	for _, perm := range permissionCatalog {
		var existing models.Permission
		errFind := conn.Where("name = ?", perm.Name).First(&existing).Error
		if errFind == nil {
			continue
		}
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			return fmt.Errorf("db: seed permission %s: %w", perm.Name, errFind)
		}
		if errCreate := conn.Create(&perm).Error; errCreate != nil {
			return fmt.Errorf("db: seed permission %s: %w", perm.Name, errCreate)
		}
	}

	var all []models.Permission
	if errList := conn.Find(&all).Error; errList != nil {
		return fmt.Errorf("db: list permissions: %w", errList)
	}

	var role models.Role
	errFind := conn.Where("name = ?", superAdminRole).First(&role).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		role = models.Role{Name: superAdminRole, Description: "Full access to every panel feature"}
		if errCreate := conn.Create(&role).Error; errCreate != nil {
			return fmt.Errorf("db: seed role: %w", errCreate)
		}
	} else if errFind != nil {
		return fmt.Errorf("db: seed role: %w", errFind)
	}

	if errAssoc := conn.Model(&role).Association("Permissions").Replace(all); errAssoc != nil {
		return fmt.Errorf("db: seed role permissions: %w", errAssoc)
	}
	return nil
}
