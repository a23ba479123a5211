package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/nimbus-apps/adminpanel/internal/models"
	"github.com/nimbus-apps/adminpanel/internal/ratelimit"
	"github.com/nimbus-apps/adminpanel/internal/security"
	"github.com/nimbus-apps/adminpanel/internal/session"
	"github.com/nimbus-apps/adminpanel/internal/store"
)

// User-facing auth messages. Unknown email, wrong password and inactive
// status all collapse into the same credentials message so responses do not
// reveal which accounts exist.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgLoginFailed        = "An error occurred during login"
	msgNotEligible        = "This email is not eligible for registration"
	msgRegisterFailed     = "An error occurred during registration"
	msgCodeInvalid        = "Invalid or expired code"
	msgTooManyAttempts    = "Too many login attempts. Please try again later"
)

// AuthHandler handles login, logout, registration and OTP actions.
type AuthHandler struct {
	admins   *store.AdminStore
	roles    *store.RoleStore
	otps     *store.OTPStore
	sessions *session.Manager
	limiter  *ratelimit.LoginLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(admins *store.AdminStore, roles *store.RoleStore, otps *store.OTPStore, sessions *session.Manager, limiter *ratelimit.LoginLimiter) *AuthHandler {
	return &AuthHandler{admins: admins, roles: roles, otps: otps, sessions: sessions, limiter: limiter}
}

// loginRequest defines the request body for login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an admin and sets the session cookie. The token is
// never returned in the response body.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		actionFailure(c, "Email and password are required")
		return
	}
	email := strings.TrimSpace(strings.ToLower(body.Email))
	password := body.Password
	if email == "" || password == "" {
		actionFailure(c, "Email and password are required")
		return
	}

	limiterKey := ratelimit.Key(email, c.ClientIP())
	if !h.limiter.Allow(c.Request.Context(), limiterKey) {
		actionFailure(c, msgTooManyAttempts)
		return
	}

	admin, errFind := h.admins.GetByEmail(c.Request.Context(), email)
	if errFind != nil {
		if errors.Is(errFind, store.ErrNotFound) {
			actionFailure(c, msgInvalidCredentials)
			return
		}
		log.WithError(errFind).Error("login: admin lookup failed")
		actionFailure(c, msgLoginFailed)
		return
	}

	if !admin.CanLogin() {
		log.WithFields(log.Fields{"admin_id": admin.ID, "status": admin.Status}).Info("login rejected: account not active")
		actionFailure(c, msgInvalidCredentials)
		return
	}

	if !security.CheckPassword(*admin.Password, password) {
		log.WithField("admin_id", admin.ID).Info("login rejected: password mismatch")
		actionFailure(c, msgInvalidCredentials)
		return
	}

	permissions, errPerms := h.roles.PermissionNamesForRole(c.Request.Context(), admin.RoleID)
	if errPerms != nil {
		log.WithError(errPerms).Error("login: permission resolution failed")
		actionFailure(c, msgLoginFailed)
		return
	}

	if errIssue := h.sessions.Issue(c, admin.ID, admin.Email, admin.RoleName(), permissions); errIssue != nil {
		log.WithError(errIssue).Error("login: session issue failed")
		actionFailure(c, msgLoginFailed)
		return
	}

	h.limiter.Reset(c.Request.Context(), limiterKey)

	// Best effort: a failed timestamp write must not fail the login.
	go func(adminID uint64) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if errTouch := h.admins.TouchLastLogin(ctx, adminID); errTouch != nil {
			log.WithError(errTouch).WithField("admin_id", adminID).Warn("login: last login update failed")
		}
	}(admin.ID)

	actionSuccess(c, "Login successful")
}

// Logout clears the session cookie. Previously issued tokens remain valid
// until their own expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	actionSuccess(c, "Logged out")
}

// Verify reports whether the request carries a valid session. Consumed by
// client-side route guards.
func (h *AuthHandler) Verify(c *gin.Context) {
	claims := h.sessions.Read(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user": gin.H{
			"id":          claims.AdminID,
			"email":       claims.Email,
			"role":        claims.Role,
			"permissions": claims.Permissions,
		},
	})
}

// emailRequest defines a request carrying only an email.
type emailRequest struct {
	Email string `json:"email"`
}

// CheckInvitedEmail is registration step 1: it reports whether an email may
// register. Unknown and non-invited emails get the same answer; the
// authoritative invited-status check happens again at Register, so nothing
// is trusted across the step boundary.
func (h *AuthHandler) CheckInvitedEmail(c *gin.Context) {
	var body emailRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		actionFailure(c, "Email is required")
		return
	}
	email := strings.TrimSpace(strings.ToLower(body.Email))
	if email == "" {
		actionFailure(c, "Email is required")
		return
	}

	admin, errFind := h.admins.GetByEmail(c.Request.Context(), email)
	if errFind != nil {
		if errors.Is(errFind, store.ErrNotFound) {
			actionFailure(c, msgNotEligible)
			return
		}
		log.WithError(errFind).Error("check invited: lookup failed")
		actionFailure(c, "An error occurred while verifying the email")
		return
	}
	if admin.Status != models.StatusInvited {
		actionFailure(c, msgNotEligible)
		return
	}
	actionSuccess(c, "Email verified successfully")
}

// registerRequest defines the request body for registration step 2.
type registerRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	FirstName   string `json:"fname"`
	Surname     string `json:"sname"`
	DateOfBirth string `json:"dob"`
	Position    string `json:"position"`
}

// Register finalizes an invitation: it hashes the password and activates the
// account in one conditional update. The invited-status re-check and the
// username uniqueness check both happen inside that update, so a status
// change after step 1 or a concurrent registration with the same username
// loses cleanly.
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		actionFailure(c, "Email, username, and password are required")
		return
	}
	email := strings.TrimSpace(strings.ToLower(body.Email))
	username := strings.TrimSpace(body.Username)
	if email == "" || username == "" || body.Password == "" {
		actionFailure(c, "Email, username, and password are required")
		return
	}
	if len(body.Password) < 8 {
		actionFailure(c, "Password must be at least 8 characters")
		return
	}

	hash, errHash := security.HashPassword(body.Password)
	if errHash != nil {
		log.WithError(errHash).Error("register: hash failed")
		actionFailure(c, msgRegisterFailed)
		return
	}

	errActivate := h.admins.Activate(c.Request.Context(), email, store.ActivationFields{
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(body.FirstName),
		Surname:      strings.TrimSpace(body.Surname),
		DateOfBirth:  strings.TrimSpace(body.DateOfBirth),
		Position:     strings.TrimSpace(body.Position),
	})
	if errActivate != nil {
		switch {
		case errors.Is(errActivate, store.ErrNotInvited):
			actionFailure(c, msgNotEligible)
		case errors.Is(errActivate, store.ErrUsernameTaken):
			actionFailure(c, "Username already exists")
		default:
			log.WithError(errActivate).Error("register: activation failed")
			actionFailure(c, msgRegisterFailed)
		}
		return
	}
	actionSuccess(c, "Registration successful")
}

// InitiateOTP generates a one-time code for the email and stores it with the
// fixed validity window.
func (h *AuthHandler) InitiateOTP(c *gin.Context) {
	var body emailRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		actionFailure(c, "Email is required")
		return
	}
	email := strings.TrimSpace(strings.ToLower(body.Email))
	if email == "" {
		actionFailure(c, "Email is required")
		return
	}

	code, errGen := security.GenerateOTPCode()
	if errGen != nil {
		log.WithError(errGen).Error("otp: generate failed")
		actionFailure(c, "Failed to send verification code")
		return
	}
	if errCreate := h.otps.Create(c.Request.Context(), email, code); errCreate != nil {
		log.WithError(errCreate).Error("otp: create failed")
		actionFailure(c, "Failed to send verification code")
		return
	}

	// TODO: deliver the code by email once the mail service is wired up.
	log.WithField("email", email).Info("one-time code issued")
	log.WithFields(log.Fields{"email": email, "code": code}).Debug("one-time code value")

	actionSuccess(c, "Verification code sent")
}

// verifyOTPRequest defines the request body for OTP verification.
type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"otp"`
}

// VerifyOTP consumes a one-time code. Mismatched and expired codes produce
// the same answer.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var body verifyOTPRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		actionFailure(c, "Email and code are required")
		return
	}
	email := strings.TrimSpace(strings.ToLower(body.Email))
	code := strings.ToUpper(strings.TrimSpace(body.Code))
	if email == "" || code == "" {
		actionFailure(c, "Email and code are required")
		return
	}

	if errConsume := h.otps.Consume(c.Request.Context(), email, code); errConsume != nil {
		if errors.Is(errConsume, store.ErrCodeInvalid) {
			actionFailure(c, msgCodeInvalid)
			return
		}
		log.WithError(errConsume).Error("otp: consume failed")
		actionFailure(c, "An error occurred while verifying the code")
		return
	}
	actionSuccess(c, "Code verified successfully")
}
