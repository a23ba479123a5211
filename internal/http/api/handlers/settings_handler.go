package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nimbus-apps/adminpanel/internal/models"
	"github.com/nimbus-apps/adminpanel/internal/settings"
)

// SettingsHandler handles system settings endpoints.
type SettingsHandler struct {
	db *gorm.DB
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

// Get returns all settings rows as a key/value object.
func (h *SettingsHandler) Get(c *gin.Context) {
	var rows []models.Setting
	if errFind := h.db.WithContext(c.Request.Context()).Order("key ASC").Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("settings: list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list settings failed"})
		return
	}
	out := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		out[row.Key] = json.RawMessage(row.Value)
	}
	c.JSON(http.StatusOK, gin.H{"settings": out})
}

// Put upserts the submitted settings and refreshes the in-memory snapshot.
func (h *SettingsHandler) Put(c *gin.Context) {
	var body map[string]json.RawMessage
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	for key, value := range body {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		row := models.Setting{Key: key, Value: []byte(value)}
		errUpsert := h.db.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&row).Error
		if errUpsert != nil {
			log.WithError(errUpsert).WithField("key", key).Error("settings: upsert failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save settings failed"})
			return
		}
	}

	if errRefresh := settings.Refresh(c.Request.Context(), h.db); errRefresh != nil {
		log.WithError(errRefresh).Warn("settings: snapshot refresh failed")
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
