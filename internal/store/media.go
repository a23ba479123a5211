package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nimbus-apps/adminpanel/internal/db"
	"github.com/nimbus-apps/adminpanel/internal/models"
)

// ErrFolderNotEmpty indicates a folder delete was refused because it still
// contains subfolders or files.
var ErrFolderNotEmpty = errors.New("folder not empty")

// MediaStore reads and writes the media library.
type MediaStore struct {
	db *gorm.DB
}

// NewMediaStore constructs a MediaStore.
func NewMediaStore(db *gorm.DB) *MediaStore {
	return &MediaStore{db: db}
}

// CreateFolder inserts a folder under the given parent.
func (s *MediaStore) CreateFolder(ctx context.Context, name string, parentID *uint64) (*models.MediaFolder, error) {
	folder := models.MediaFolder{Name: name, ParentID: parentID}
	if errCreate := s.db.WithContext(ctx).Create(&folder).Error; errCreate != nil {
		return nil, fmt.Errorf("store: create folder: %w", errCreate)
	}
	return &folder, nil
}

// ListFolders returns the folders directly under the given parent
// (nil = root level).
func (s *MediaStore) ListFolders(ctx context.Context, parentID *uint64) ([]models.MediaFolder, error) {
	var folders []models.MediaFolder
	q := s.db.WithContext(ctx).Order("name ASC")
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if errFind := q.Find(&folders).Error; errFind != nil {
		return nil, fmt.Errorf("store: list folders: %w", errFind)
	}
	return folders, nil
}

// GetFolder fetches a folder by ID.
func (s *MediaStore) GetFolder(ctx context.Context, id uint64) (*models.MediaFolder, error) {
	var folder models.MediaFolder
	errFind := s.db.WithContext(ctx).First(&folder, id).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: folder by id: %w", errFind)
	}
	return &folder, nil
}

// RenameFolder updates a folder's display name.
func (s *MediaStore) RenameFolder(ctx context.Context, id uint64, name string) error {
	res := s.db.WithContext(ctx).Model(&models.MediaFolder{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return fmt.Errorf("store: rename folder: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFolder removes an empty folder. Folders holding subfolders or files
// are refused with ErrFolderNotEmpty.
func (s *MediaStore) DeleteFolder(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var children int64
		if errCount := tx.Model(&models.MediaFolder{}).Where("parent_id = ?", id).Count(&children).Error; errCount != nil {
			return fmt.Errorf("store: count subfolders: %w", errCount)
		}
		var files int64
		if errCount := tx.Model(&models.MediaFile{}).Where("folder_id = ?", id).Count(&files).Error; errCount != nil {
			return fmt.Errorf("store: count folder files: %w", errCount)
		}
		if children > 0 || files > 0 {
			return ErrFolderNotEmpty
		}
		res := tx.Delete(&models.MediaFolder{}, id)
		if res.Error != nil {
			return fmt.Errorf("store: delete folder: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateFile inserts a media file row.
func (s *MediaStore) CreateFile(ctx context.Context, file *models.MediaFile) error {
	if errCreate := s.db.WithContext(ctx).Create(file).Error; errCreate != nil {
		return fmt.Errorf("store: create file: %w", errCreate)
	}
	return nil
}

// ListFiles returns a page of files in the given folder (nil = root level)
// together with the total count.
func (s *MediaStore) ListFiles(ctx context.Context, folderID *uint64, offset, limit int) ([]models.MediaFile, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.MediaFile{})
	if folderID == nil {
		base = base.Where("folder_id IS NULL")
	} else {
		base = base.Where("folder_id = ?", *folderID)
	}

	var total int64
	if errCount := base.Count(&total).Error; errCount != nil {
		return nil, 0, fmt.Errorf("store: count files: %w", errCount)
	}

	var files []models.MediaFile
	if errFind := base.Order("name ASC").Offset(offset).Limit(limit).Find(&files).Error; errFind != nil {
		return nil, 0, fmt.Errorf("store: list files: %w", errFind)
	}
	return files, total, nil
}

// SearchFiles performs a case-insensitive name search across all folders.
func (s *MediaStore) SearchFiles(ctx context.Context, query string, offset, limit int) ([]models.MediaFile, int64, error) {
	pattern := "%" + db.NormalizeLikePattern(s.db, query) + "%"
	base := s.db.WithContext(ctx).Model(&models.MediaFile{}).
		Where(db.CaseInsensitiveLikeExpr(s.db, "name"), pattern)

	var total int64
	if errCount := base.Count(&total).Error; errCount != nil {
		return nil, 0, fmt.Errorf("store: count search: %w", errCount)
	}

	var files []models.MediaFile
	if errFind := base.Order("name ASC").Offset(offset).Limit(limit).Find(&files).Error; errFind != nil {
		return nil, 0, fmt.Errorf("store: search files: %w", errFind)
	}
	return files, total, nil
}

// GetFile fetches a file by ID.
func (s *MediaStore) GetFile(ctx context.Context, id uint64) (*models.MediaFile, error) {
	var file models.MediaFile
	errFind := s.db.WithContext(ctx).First(&file, id).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: file by id: %w", errFind)
	}
	return &file, nil
}

// RenameFile updates a file's display name.
func (s *MediaStore) RenameFile(ctx context.Context, id uint64, name string) error {
	res := s.db.WithContext(ctx).Model(&models.MediaFile{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return fmt.Errorf("store: rename file: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFile removes a file row and returns it so the caller can remove the
// stored bytes.
func (s *MediaStore) DeleteFile(ctx context.Context, id uint64) (*models.MediaFile, error) {
	file, errGet := s.GetFile(ctx, id)
	if errGet != nil {
		return nil, errGet
	}
	if errDelete := s.db.WithContext(ctx).Delete(&models.MediaFile{}, id).Error; errDelete != nil {
		return nil, fmt.Errorf("store: delete file: %w", errDelete)
	}
	return file, nil
}
