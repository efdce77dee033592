// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "session_id"
	sessionKey    = "session_id"
	ownerKey      = "owner"
)

// Session resolves who owns the cart and wishlist of this request: "user:<id>" when
// authenticated, otherwise "session:<uuid>" from the session cookie, issuing one if needed.
// It must run after OptionalAuthMiddleware.
func Session(maxAge time.Duration, secure bool) gin.HandlerFunc {
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if _, parseErr := uuid.Parse(sessionID); err != nil || parseErr != nil {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sessionID, int(maxAge.Seconds()), "/", "", secure, true)
		}
		c.Set(sessionKey, sessionID)

		if userID, ok := GetUserIDFromContext(c); ok {
			c.Set(ownerKey, UserOwner(userID))
		} else {
			c.Set(ownerKey, SessionOwner(sessionID))
		}

		c.Next()
	}
}

// UserOwner is the owner key of a signed-in shopper
func UserOwner(userID string) string {
	return "user:" + userID
}

// SessionOwner is the owner key of a guest session
func SessionOwner(sessionID string) string {
	return "session:" + sessionID
}

// GetOwnerFromContext returns the owner resolved by Session
func GetOwnerFromContext(c *gin.Context) string {
	return c.GetString(ownerKey)
}

// GetSessionIDFromContext returns the guest session id, present even for signed-in shoppers
func GetSessionIDFromContext(c *gin.Context) string {
	return c.GetString(sessionKey)
}
