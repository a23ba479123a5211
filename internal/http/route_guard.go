// Package http assembles the gin engine: the route guard, the auth actions
// and the permission-gated admin API.
package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nimbus-apps/adminpanel/internal/session"
)

// Route classification prefixes for the guard.
var (
	// protectedPrefixes require a session to browse.
	protectedPrefixes = []string{"/admin"}
	// authPrefixes are reachable only without a session.
	authPrefixes = []string{"/authentication/login", "/authentication/register"}
	// guardExclusions are never guarded: the API namespace, static assets and
	// the favicon.
	guardExclusions = []string{"/api", "/static", "/favicon.ico"}
)

// loginPath is where unauthenticated admin-area requests are sent.
const loginPath = "/authentication/login"

// adminLandingPath is where authenticated auth-page requests are sent.
const adminLandingPath = "/admin"

// hasPrefixAny reports whether the path starts with any of the prefixes.
func hasPrefixAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RouteGuard redirects unauthenticated requests away from the admin area and
// authenticated requests away from the auth pages. It only verifies the
// cookie; it never mints, refreshes or clears it.
func RouteGuard(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if hasPrefixAny(path, guardExclusions) {
			c.Next()
			return
		}

		isProtected := hasPrefixAny(path, protectedPrefixes)
		isAuthPage := hasPrefixAny(path, authPrefixes)
		if !isProtected && !isAuthPage {
			c.Next()
			return
		}

		hasSession := sessions.Read(c) != nil

		if isProtected && !hasSession {
			c.Redirect(http.StatusFound, loginPath+"?redirect="+url.QueryEscape(path))
			c.Abort()
			return
		}
		if isAuthPage && hasSession {
			c.Redirect(http.StatusFound, adminLandingPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
