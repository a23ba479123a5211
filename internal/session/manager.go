// Package session manages the signed session cookie: issuing it at login,
// reading it back on every request, and answering permission checks against
// the claims it carries.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/nimbus-apps/adminpanel/internal/security"
)

// CookieName is the name of the HTTP-only access cookie.
const CookieName = "auth_token"

// contextKey is the gin context key for the memoized decode result.
const contextKey = "sessionClaims"

// Manager issues, reads and clears the session cookie.
type Manager struct {
	secret       string
	expiry       time.Duration
	secureCookie bool
}

// NewManager constructs a Manager. secureCookie should be true in
// production so the cookie is only sent over TLS.
func NewManager(secret string, expiry time.Duration, secureCookie bool) *Manager {
	return &Manager{secret: secret, expiry: expiry, secureCookie: secureCookie}
}

// Expiry returns the configured session lifetime.
func (m *Manager) Expiry() time.Duration {
	return m.expiry
}

// Issue mints a session token for the given identity and sets it as the
// access cookie. The token never appears in a response body.
func (m *Manager) Issue(c *gin.Context, adminID uint64, email, role string, permissions []string) error {
	token, errToken := security.GenerateSessionToken(m.secret, adminID, email, role, permissions, m.expiry)
	if errToken != nil {
		return errToken
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(m.expiry/time.Second), "/", "", m.secureCookie, true)
	return nil
}

// cached wraps a decode result so that a nil outcome is memoized too.
type cached struct {
	claims *security.SessionClaims
}

// Read decodes the access cookie and returns the session claims, or nil when
// no valid session is present. The result is memoized on the gin context so
// repeated checks within one request verify the signature only once.
func (m *Manager) Read(c *gin.Context) *security.SessionClaims {
	if v, ok := c.Get(contextKey); ok {
		if entry, okEntry := v.(cached); okEntry {
			return entry.claims
		}
	}

	claims := m.decode(c)
	c.Set(contextKey, cached{claims: claims})
	return claims
}

// decode performs the actual cookie read and token verification.
func (m *Manager) decode(c *gin.Context) *security.SessionClaims {
	token, errCookie := c.Cookie(CookieName)
	if errCookie != nil || token == "" {
		return nil
	}
	claims, errParse := security.ParseSessionToken(m.secret, token)
	if errParse != nil {
		// Expired vs tampered matters only for the logs; both read as "no session".
		if errors.Is(errParse, security.ErrExpiredToken) {
			log.WithField("path", c.Request.URL.Path).Debug("session token expired")
		} else {
			log.WithField("path", c.Request.URL.Path).Debug("session token rejected")
		}
		return nil
	}
	return claims
}

// Clear overwrites the access cookie with an immediately expired empty value
// using the same attributes it was set with. There is no server-side
// revocation list; a captured token stays valid until its own expiry.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secureCookie, true)
}
