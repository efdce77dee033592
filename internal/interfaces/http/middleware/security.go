// internal/interfaces/http/middleware/security.go
package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds security headers to responses
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent clickjacking
		c.Header("X-Frame-Options", "DENY")

		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// JSON only API
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// Cart and wishlist responses are per visitor
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}
