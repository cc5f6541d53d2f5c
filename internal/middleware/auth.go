package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/foliospace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Auth returns a middleware that guards content-management routes with the
// configured admin token. An empty configured token locks the guarded surface
// entirely: there is no built-in fallback credential.
func Auth(adminToken string) gin.HandlerFunc {
	expected := strings.TrimSpace(adminToken)
	return func(c *gin.Context) {
		if expected == "" {
			response.Unauthorized(c)
			return
		}
		token := extractToken(c)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			response.Unauthorized(c)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
