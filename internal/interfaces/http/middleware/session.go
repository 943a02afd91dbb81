// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/storefront/internal/config"
)

// CartSession ensures every request carries a cart session key. The key
// lives in a cookie so guest carts survive across visits; a missing or
// empty cookie gets a fresh UUID.
func CartSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionKey, err := c.Cookie(cfg.Security.SessionCookieName)
		if err != nil || sessionKey == "" {
			sessionKey = uuid.New().String()
			c.SetCookie(
				cfg.Security.SessionCookieName,
				sessionKey,
				int(cfg.Security.SessionCookieAge.Seconds()),
				"/",
				"",
				cfg.IsProduction(),
				true,
			)
		}

		c.Set("session_key", sessionKey)
		c.Next()
	}
}

// GetSessionKeyFromContext extracts the cart session key from gin context
func GetSessionKeyFromContext(c *gin.Context) (string, bool) {
	sessionKey, exists := c.Get("session_key")
	if !exists {
		return "", false
	}
	return sessionKey.(string), true
}
