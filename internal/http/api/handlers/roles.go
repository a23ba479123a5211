package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/nimbus-apps/adminpanel/internal/store"
)

// RolesHandler handles role and permission catalog endpoints.
type RolesHandler struct {
	roles *store.RoleStore
}

// NewRolesHandler constructs a RolesHandler.
func NewRolesHandler(roles *store.RoleStore) *RolesHandler {
	return &RolesHandler{roles: roles}
}

// List returns all roles with their permission names.
func (h *RolesHandler) List(c *gin.Context) {
	roles, errList := h.roles.List(c.Request.Context())
	if errList != nil {
		log.WithError(errList).Error("roles: list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list roles failed"})
		return
	}
	out := make([]gin.H, 0, len(roles))
	for _, role := range roles {
		names := make([]string, 0, len(role.Permissions))
		for _, p := range role.Permissions {
			names = append(names, p.Name)
		}
		out = append(out, gin.H{
			"id":          role.ID,
			"name":        role.Name,
			"description": role.Description,
			"permissions": names,
		})
	}
	c.JSON(http.StatusOK, gin.H{"roles": out})
}

// Permissions returns the full permission catalog.
func (h *RolesHandler) Permissions(c *gin.Context) {
	perms, errList := h.roles.ListPermissions(c.Request.Context())
	if errList != nil {
		log.WithError(errList).Error("roles: list permissions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list permissions failed"})
		return
	}
	out := make([]gin.H, 0, len(perms))
	for _, p := range perms {
		out = append(out, gin.H{"id": p.ID, "name": p.Name, "description": p.Description})
	}
	c.JSON(http.StatusOK, gin.H{"permissions": out})
}

// replacePermissionsRequest defines the request body for grant updates.
type replacePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// ReplacePermissions sets a role's permission grants. Admins holding the
// role keep their old snapshot until they log in again.
func (h *RolesHandler) ReplacePermissions(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role id"})
		return
	}
	var body replacePermissionsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errReplace := h.roles.ReplacePermissions(c.Request.Context(), id, body.Permissions); errReplace != nil {
		if errors.Is(errReplace, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
			return
		}
		log.WithError(errReplace).Error("roles: replace permissions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
