package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/nimbus-apps/adminpanel/internal/models"
	"github.com/nimbus-apps/adminpanel/internal/store"
)

// AdminsHandler handles admin account management endpoints.
type AdminsHandler struct {
	admins *store.AdminStore
	roles  *store.RoleStore
}

// NewAdminsHandler constructs an AdminsHandler.
func NewAdminsHandler(admins *store.AdminStore, roles *store.RoleStore) *AdminsHandler {
	return &AdminsHandler{admins: admins, roles: roles}
}

// adminJSON shapes an account for responses. The password hash never leaves
// the store layer boundary.
func adminJSON(a models.Admin) gin.H {
	return gin.H{
		"id":            a.ID,
		"email":         a.Email,
		"username":      a.Username,
		"status":        a.Status,
		"first_name":    a.FirstName,
		"surname":       a.Surname,
		"date_of_birth": a.DateOfBirth,
		"position":      a.Position,
		"role":          a.RoleName(),
		"last_login_at": a.LastLoginAt,
		"created_at":    a.CreatedAt,
		"updated_at":    a.UpdatedAt,
	}
}

// List returns all admin accounts except deleted ones.
func (h *AdminsHandler) List(c *gin.Context) {
	admins, errList := h.admins.List(c.Request.Context())
	if errList != nil {
		log.WithError(errList).Error("admins: list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list admins failed"})
		return
	}
	out := make([]gin.H, 0, len(admins))
	for _, a := range admins {
		out = append(out, adminJSON(a))
	}
	c.JSON(http.StatusOK, gin.H{"admins": out})
}

// inviteRequest defines the request body for inviting an admin.
type inviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Invite creates an account in invited status. The invitee completes
// registration through the public registration flow.
func (h *AdminsHandler) Invite(c *gin.Context) {
	var body inviteRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.TrimSpace(strings.ToLower(body.Email))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	var roleID *uint64
	if roleName := strings.TrimSpace(body.Role); roleName != "" {
		role, errRole := h.roles.GetByName(c.Request.Context(), roleName)
		if errRole != nil {
			if errors.Is(errRole, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
				return
			}
			log.WithError(errRole).Error("admins: role lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "invite failed"})
			return
		}
		roleID = &role.ID
	}

	admin, errInvite := h.admins.Invite(c.Request.Context(), email, roleID)
	if errInvite != nil {
		log.WithError(errInvite).Error("admins: invite failed")
		c.JSON(http.StatusConflict, gin.H{"error": "email already invited or registered"})
		return
	}
	c.JSON(http.StatusCreated, adminJSON(*admin))
}

// updateAdminRequest defines the request body for admin updates.
type updateAdminRequest struct {
	Status string `json:"status"`
	Role   string `json:"role"`
}

// allowedStatusTransitions lists statuses settable by administrative action.
// Activation happens only through the registration flow.
var allowedStatusTransitions = map[string]bool{
	models.StatusBanned:      true,
	models.StatusPending:     true,
	models.StatusOutOfOffice: true,
	models.StatusDeleted:     true,
	models.StatusActive:      true,
}

// Update changes an admin's status or role. Role changes take effect on the
// admin's next login; existing sessions keep their permission snapshot.
func (h *AdminsHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid admin id"})
		return
	}
	var body updateAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{}
	if status := strings.TrimSpace(body.Status); status != "" {
		if !allowedStatusTransitions[status] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		updates["status"] = status
	}
	if roleName := strings.TrimSpace(body.Role); roleName != "" {
		role, errRole := h.roles.GetByName(c.Request.Context(), roleName)
		if errRole != nil {
			if errors.Is(errRole, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
				return
			}
			log.WithError(errRole).Error("admins: role lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		updates["role_id"] = role.ID
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	if errUpdate := h.admins.Update(c.Request.Context(), id, updates); errUpdate != nil {
		if errors.Is(errUpdate, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
			return
		}
		log.WithError(errUpdate).Error("admins: update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
