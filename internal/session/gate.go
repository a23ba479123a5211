package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Permission checks test membership against the permission snapshot embedded
// in the token at mint time. The snapshot is deliberately not re-resolved per
// request: checks cost no I/O, and role or permission edits take effect on
// the admin's next login.

// HasPermission reports whether the current session holds the named
// permission. Without a session every check is false.
func (m *Manager) HasPermission(c *gin.Context, name string) bool {
	claims := m.Read(c)
	if claims == nil {
		return false
	}
	for _, p := range claims.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

// HasAny reports whether the current session holds at least one of the named
// permissions.
func (m *Manager) HasAny(c *gin.Context, names ...string) bool {
	for _, name := range names {
		if m.HasPermission(c, name) {
			return true
		}
	}
	return false
}

// HasAll reports whether the current session holds every named permission.
func (m *Manager) HasAll(c *gin.Context, names ...string) bool {
	for _, name := range names {
		if !m.HasPermission(c, name) {
			return false
		}
	}
	return true
}

// Required rejects requests without a valid session with 401.
func (m *Manager) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.Read(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequirePermission rejects requests without a valid session with 401 and
// sessions missing the named permission with 403.
func (m *Manager) RequirePermission(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := m.Read(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !m.HasPermission(c, name) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}
