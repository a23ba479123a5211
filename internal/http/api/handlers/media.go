package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nimbus-apps/adminpanel/internal/models"
	"github.com/nimbus-apps/adminpanel/internal/settings"
	"github.com/nimbus-apps/adminpanel/internal/store"
)

// MediaHandler handles media library folders and files.
type MediaHandler struct {
	media    *store.MediaStore
	mediaDir string
}

// NewMediaHandler constructs a MediaHandler. mediaDir is where uploaded
// bytes are stored.
func NewMediaHandler(media *store.MediaStore, mediaDir string) *MediaHandler {
	return &MediaHandler{media: media, mediaDir: mediaDir}
}

// folderJSON shapes a folder for responses.
func folderJSON(f models.MediaFolder) gin.H {
	return gin.H{
		"id":         f.ID,
		"name":       f.Name,
		"parent_id":  f.ParentID,
		"created_at": f.CreatedAt,
		"updated_at": f.UpdatedAt,
	}
}

// fileJSON shapes a file for responses.
func fileJSON(f models.MediaFile) gin.H {
	return gin.H{
		"id":         f.ID,
		"folder_id":  f.FolderID,
		"name":       f.Name,
		"url":        "/static/media/" + f.StoredName,
		"mime_type":  f.MimeType,
		"size_bytes": f.SizeBytes,
		"metadata":   f.Metadata,
		"created_at": f.CreatedAt,
		"updated_at": f.UpdatedAt,
	}
}

// parseOptionalID parses an optional numeric query or form value.
func parseOptionalID(raw string) (*uint64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, true
	}
	id, errParse := strconv.ParseUint(trimmed, 10, 64)
	if errParse != nil {
		return nil, false
	}
	return &id, true
}

// pagination extracts page/page_size query parameters with defaults from the
// settings snapshot.
func pagination(c *gin.Context) (offset, limit int) {
	limit = settings.IntValue(settings.MediaPageSizeKey, settings.DefaultMediaPageSize)
	if raw := c.Query("page_size"); raw != "" {
		if n, errParse := strconv.Atoi(raw); errParse == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	page := 1
	if raw := c.Query("page"); raw != "" {
		if n, errParse := strconv.Atoi(raw); errParse == nil && n > 0 {
			page = n
		}
	}
	return (page - 1) * limit, limit
}

// ListFolders lists the folders under a parent (root level when parent_id is
// absent).
func (h *MediaHandler) ListFolders(c *gin.Context) {
	parentID, ok := parseOptionalID(c.Query("parent_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent_id"})
		return
	}
	folders, errList := h.media.ListFolders(c.Request.Context(), parentID)
	if errList != nil {
		log.WithError(errList).Error("media: list folders failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list folders failed"})
		return
	}
	out := make([]gin.H, 0, len(folders))
	for _, f := range folders {
		out = append(out, folderJSON(f))
	}
	c.JSON(http.StatusOK, gin.H{"folders": out})
}

// createFolderRequest defines the request body for folder creation.
type createFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *uint64 `json:"parent_id"`
}

// CreateFolder creates a folder.
func (h *MediaHandler) CreateFolder(c *gin.Context) {
	var body createFolderRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folder name is required"})
		return
	}
	if body.ParentID != nil {
		if _, errGet := h.media.GetFolder(c.Request.Context(), *body.ParentID); errGet != nil {
			if errors.Is(errGet, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "parent folder not found"})
				return
			}
			log.WithError(errGet).Error("media: parent lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create folder failed"})
			return
		}
	}
	folder, errCreate := h.media.CreateFolder(c.Request.Context(), name, body.ParentID)
	if errCreate != nil {
		log.WithError(errCreate).Error("media: create folder failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create folder failed"})
		return
	}
	c.JSON(http.StatusCreated, folderJSON(*folder))
}

// renameRequest defines the request body for renames.
type renameRequest struct {
	Name string `json:"name"`
}

// RenameFolder renames a folder.
func (h *MediaHandler) RenameFolder(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
		return
	}
	var body renameRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil || strings.TrimSpace(body.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folder name is required"})
		return
	}
	if errRename := h.media.RenameFolder(c.Request.Context(), id, strings.TrimSpace(body.Name)); errRename != nil {
		if errors.Is(errRename, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
			return
		}
		log.WithError(errRename).Error("media: rename folder failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rename folder failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteFolder deletes an empty folder.
func (h *MediaHandler) DeleteFolder(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
		return
	}
	if errDelete := h.media.DeleteFolder(c.Request.Context(), id); errDelete != nil {
		switch {
		case errors.Is(errDelete, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
		case errors.Is(errDelete, store.ErrFolderNotEmpty):
			c.JSON(http.StatusConflict, gin.H{"error": "folder is not empty"})
		default:
			log.WithError(errDelete).Error("media: delete folder failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete folder failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListFiles returns a page of files in a folder.
func (h *MediaHandler) ListFiles(c *gin.Context) {
	folderID, ok := parseOptionalID(c.Query("folder_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder_id"})
		return
	}
	offset, limit := pagination(c)
	files, total, errList := h.media.ListFiles(c.Request.Context(), folderID, offset, limit)
	if errList != nil {
		log.WithError(errList).Error("media: list files failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list files failed"})
		return
	}
	out := make([]gin.H, 0, len(files))
	for _, f := range files {
		out = append(out, fileJSON(f))
	}
	c.JSON(http.StatusOK, gin.H{"files": out, "total": total})
}

// SearchFiles searches file names case-insensitively across all folders.
func (h *MediaHandler) SearchFiles(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search query is required"})
		return
	}
	offset, limit := pagination(c)
	files, total, errSearch := h.media.SearchFiles(c.Request.Context(), query, offset, limit)
	if errSearch != nil {
		log.WithError(errSearch).Error("media: search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	out := make([]gin.H, 0, len(files))
	for _, f := range files {
		out = append(out, fileJSON(f))
	}
	c.JSON(http.StatusOK, gin.H{"files": out, "total": total})
}

// Upload stores an uploaded file on disk under a generated name and records
// it in the library.
func (h *MediaHandler) Upload(c *gin.Context) {
	fileHeader, errFile := c.FormFile("file")
	if errFile != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	maxBytes := int64(settings.IntValue(settings.MaxUploadSizeMBKey, settings.DefaultMaxUploadSizeMB)) << 20
	if fileHeader.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	folderID, ok := parseOptionalID(c.PostForm("folder_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder_id"})
		return
	}
	if folderID != nil {
		if _, errGet := h.media.GetFolder(c.Request.Context(), *folderID); errGet != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "folder not found"})
			return
		}
	}

	if errMkdir := os.MkdirAll(h.mediaDir, 0755); errMkdir != nil {
		log.WithError(errMkdir).Error("media: create media dir failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	storedName := uuid.NewString() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dst := filepath.Join(h.mediaDir, storedName)
	if errSave := c.SaveUploadedFile(fileHeader, dst); errSave != nil {
		log.WithError(errSave).Error("media: save upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	file := models.MediaFile{
		FolderID:   folderID,
		Name:       filepath.Base(fileHeader.Filename),
		StoredName: storedName,
		MimeType:   fileHeader.Header.Get("Content-Type"),
		SizeBytes:  fileHeader.Size,
	}
	if errCreate := h.media.CreateFile(c.Request.Context(), &file); errCreate != nil {
		_ = os.Remove(dst)
		log.WithError(errCreate).Error("media: record upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, fileJSON(file))
}

// RenameFile renames a file's display name; the stored name never changes.
func (h *MediaHandler) RenameFile(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	var body renameRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil || strings.TrimSpace(body.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file name is required"})
		return
	}
	if errRename := h.media.RenameFile(c.Request.Context(), id, strings.TrimSpace(body.Name)); errRename != nil {
		if errors.Is(errRename, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		log.WithError(errRename).Error("media: rename file failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rename file failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteFile removes a file row and its stored bytes. Removing the bytes is
// best effort once the row is gone.
func (h *MediaHandler) DeleteFile(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	file, errDelete := h.media.DeleteFile(c.Request.Context(), id)
	if errDelete != nil {
		if errors.Is(errDelete, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		log.WithError(errDelete).Error("media: delete file failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete file failed"})
		return
	}
	if errRemove := os.Remove(filepath.Join(h.mediaDir, file.StoredName)); errRemove != nil && !os.IsNotExist(errRemove) {
		log.WithError(errRemove).WithField("file", file.StoredName).Warn("media: stored bytes not removed")
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
