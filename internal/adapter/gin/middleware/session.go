package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"user-admin/pkg/logger"
)

const sessionIDKey = "session_id"

// SessionConfig configures the session cookie.
type SessionConfig struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
}

// Session assigns every browser a session ID cookie. The ID keys the screen
// state in the session store. Cookies that are not UUIDs are replaced.
func Session(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
		}

		// Refresh on every request so the cookie outlives the sliding store TTL.
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   int(cfg.TTL.Seconds()),
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})

		c.Set(sessionIDKey, sessionID)
		c.Request = c.Request.WithContext(logger.ContextWithSessionID(c.Request.Context(), sessionID))
		c.Next()
	}
}

// ForwardedSession puts the admin session ID sent by the Users API client into
// the request context, for logging only.
func ForwardedSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(logger.SessionIDHeader); id != "" && len(id) <= maxRequestIDLen {
			c.Request = c.Request.WithContext(logger.ContextWithSessionID(c.Request.Context(), id))
		}
		c.Next()
	}
}

// SessionID returns the session ID set by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
