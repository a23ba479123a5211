package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Action endpoints report failures in the response body with HTTP 200; the
// HTTP status is reserved for transport-level problems. Exceptions never
// reach the caller: every failure maps to this shape.

// actionFailure writes a failed action result.
func actionFailure(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "error": message})
}

// actionSuccess writes a successful action result.
func actionSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
