// Package apiresponses provides the standardized JSON response helpers
// shared between the api and gateway packages without import cycles.
package apiresponses

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the error envelope returned for every rejected request.
type APIError struct {
	Error string `json:"error"`
}

// Error sends a JSON error envelope with the given status and message.
// The message must already be user-safe.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, APIError{Error: message})
}

// Unauthorized sends the 401 response for missing or invalid API keys.
// The message is deliberately uniform so callers cannot distinguish a
// wrong key from a missing one.
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

// InternalServerError sends the generic 500 response. Detail stays in the
// server-side log, never in the body.
func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}
