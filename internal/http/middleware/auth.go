// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides AdminAuth, a bearer-token gate for the admin endpoints
// (review generation, artifact rendering, deletion). The expected token comes
// from configuration; comparison is constant-time so the check does not leak
// token prefixes through response timing.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminAuth returns a middleware that requires "Authorization: Bearer <token>"
// to match the configured admin token.
//
// Behavior:
//   - Missing or malformed Authorization header -> 401 unauthorized.
//   - Token mismatch -> 401 unauthorized.
//   - An empty configured token rejects every request; the router should not
//     mount admin routes in that case, but this is the safe default if it does.
//
// The error body follows the standard envelope so clients can branch on the
// code field uniformly.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := bearerToken(c.GetHeader("Authorization"))
		if token == "" || supplied == "" ||
			subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success":    false,
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"error":      "missing or invalid bearer token",
			})
			return
		}
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer x" header,
// returning "" when the scheme is absent or different.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
