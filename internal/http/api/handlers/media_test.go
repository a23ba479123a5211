package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nimbus-apps/adminpanel/internal/db"
	"github.com/nimbus-apps/adminpanel/internal/store"
)

type mediaHarness struct {
	engine   *gin.Engine
	conn     *gorm.DB
	mediaDir string
}

func setupMediaTest(t *testing.T) *mediaHarness {
	t.Helper()
	dsn := fmt.Sprintf("file:media_handlers_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}

	mediaDir := t.TempDir()
	media := NewMediaHandler(store.NewMediaStore(conn), mediaDir)

	engine := gin.New()
	api := engine.Group("/api/admin/media")
	api.GET("/folders", media.ListFolders)
	api.POST("/folders", media.CreateFolder)
	api.PUT("/folders/:id", media.RenameFolder)
	api.DELETE("/folders/:id", media.DeleteFolder)
	api.GET("/files", media.ListFiles)
	api.GET("/files/search", media.SearchFiles)
	api.POST("/files", media.Upload)
	api.PUT("/files/:id", media.RenameFile)
	api.DELETE("/files/:id", media.DeleteFile)

	return &mediaHarness{engine: engine, conn: conn, mediaDir: mediaDir}
}

func (h *mediaHarness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		payload, errMarshal := json.Marshal(body)
		if errMarshal != nil {
			t.Fatalf("marshal: %v", errMarshal)
		}
		reader = strings.NewReader(string(payload))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	return rec
}

func (h *mediaHarness) upload(t *testing.T, filename, content, folderID string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, errPart := writer.CreateFormFile("file", filename)
	if errPart != nil {
		t.Fatalf("create form file: %v", errPart)
	}
	if _, errWrite := part.Write([]byte(content)); errWrite != nil {
		t.Fatalf("write part: %v", errWrite)
	}
	if folderID != "" {
		if errField := writer.WriteField("folder_id", folderID); errField != nil {
			t.Fatalf("write field: %v", errField)
		}
	}
	if errClose := writer.Close(); errClose != nil {
		t.Fatalf("close writer: %v", errClose)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/media/files", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	return rec
}

func TestFolderCRUDOverHTTP(t *testing.T) {
	h := setupMediaTest(t)

	created := h.do(t, http.MethodPost, "/api/admin/media/folders", gin.H{"name": "images"})
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", created.Code, created.Body)
	}
	folder := decodeBody(t, created)
	id := fmt.Sprintf("%.0f", folder["id"].(float64))

	list := decodeBody(t, h.do(t, http.MethodGet, "/api/admin/media/folders", nil))
	folders := list["folders"].([]any)
	if len(folders) != 1 {
		t.Fatalf("folders = %v", folders)
	}

	if rec := h.do(t, http.MethodPut, "/api/admin/media/folders/"+id, gin.H{"name": "photos"}); rec.Code != http.StatusOK {
		t.Fatalf("rename status = %d", rec.Code)
	}
	renamed := decodeBody(t, h.do(t, http.MethodGet, "/api/admin/media/folders", nil))
	if renamed["folders"].([]any)[0].(map[string]any)["name"] != "photos" {
		t.Fatalf("rename not applied: %v", renamed)
	}

	if rec := h.do(t, http.MethodDelete, "/api/admin/media/folders/"+id, nil); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := h.do(t, http.MethodDelete, "/api/admin/media/folders/"+id, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestCreateFolderValidation(t *testing.T) {
	h := setupMediaTest(t)

	if rec := h.do(t, http.MethodPost, "/api/admin/media/folders", gin.H{"name": "  "}); rec.Code != http.StatusBadRequest {
		t.Fatalf("blank name status = %d, want 400", rec.Code)
	}
	missingParent := uint64(999)
	if rec := h.do(t, http.MethodPost, "/api/admin/media/folders", gin.H{"name": "x", "parent_id": missingParent}); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing parent status = %d, want 400", rec.Code)
	}
}

func TestDeleteNonEmptyFolderConflicts(t *testing.T) {
	h := setupMediaTest(t)

	created := decodeBody(t, h.do(t, http.MethodPost, "/api/admin/media/folders", gin.H{"name": "busy"}))
	id := fmt.Sprintf("%.0f", created["id"].(float64))

	if rec := h.upload(t, "pic.png", "png-bytes", id); rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body)
	}
	if rec := h.do(t, http.MethodDelete, "/api/admin/media/folders/"+id, nil); rec.Code != http.StatusConflict {
		t.Fatalf("delete status = %d, want 409", rec.Code)
	}
}

func TestUploadStoresFileUnderGeneratedName(t *testing.T) {
	h := setupMediaTest(t)

	rec := h.upload(t, "My Photo.PNG", "fake image bytes", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body)
	}
	file := decodeBody(t, rec)

	if file["name"] != "My Photo.PNG" {
		t.Fatalf("display name = %v", file["name"])
	}
	url, okURL := file["url"].(string)
	if !okURL || !strings.HasPrefix(url, "/static/media/") {
		t.Fatalf("url = %v", file["url"])
	}
	storedName := strings.TrimPrefix(url, "/static/media/")
	// Stored names are opaque: extension kept, original name dropped.
	if !strings.HasSuffix(storedName, ".png") {
		t.Fatalf("stored name = %q, want .png suffix", storedName)
	}
	if strings.Contains(storedName, "My Photo") {
		t.Fatalf("stored name leaks the original: %q", storedName)
	}

	data, errRead := os.ReadFile(filepath.Join(h.mediaDir, storedName))
	if errRead != nil {
		t.Fatalf("stored bytes missing: %v", errRead)
	}
	if string(data) != "fake image bytes" {
		t.Fatalf("stored bytes = %q", data)
	}
}

func TestUploadRequiresFile(t *testing.T) {
	h := setupMediaTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/media/files", strings.NewReader(""))
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadRejectsUnknownFolder(t *testing.T) {
	h := setupMediaTest(t)

	if rec := h.upload(t, "a.png", "x", "12345"); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestFileSearchAndDeleteOverHTTP(t *testing.T) {
	h := setupMediaTest(t)

	if rec := h.upload(t, "invoice-march.pdf", "pdf", ""); rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", rec.Code)
	}
	uploaded := decodeBody(t, h.upload(t, "Invoice-April.pdf", "pdf", ""))
	id := fmt.Sprintf("%.0f", uploaded["id"].(float64))

	search := decodeBody(t, h.do(t, http.MethodGet, "/api/admin/media/files/search?q=INVOICE", nil))
	if search["total"].(float64) != 2 {
		t.Fatalf("search total = %v, want 2", search["total"])
	}

	storedName := strings.TrimPrefix(uploaded["url"].(string), "/static/media/")
	if rec := h.do(t, http.MethodDelete, "/api/admin/media/files/"+id, nil); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if _, errStat := os.Stat(filepath.Join(h.mediaDir, storedName)); !os.IsNotExist(errStat) {
		t.Fatalf("stored bytes survived delete: %v", errStat)
	}

	after := decodeBody(t, h.do(t, http.MethodGet, "/api/admin/media/files?page_size=10", nil))
	if after["total"].(float64) != 1 {
		t.Fatalf("total after delete = %v, want 1", after["total"])
	}
}
