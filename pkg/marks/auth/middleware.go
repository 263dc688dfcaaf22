package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKeyAuthorized is set to true in the gin context for requests
// carrying a valid token
const ContextKeyAuthorized = "authorized"

// RequireAuth rejects requests without a valid token. Every failure gets the
// same 403 so clients cannot tell a bad header from a bad token.
func (g *Gate) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := g.Authorize(c.Request.Header); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}

		c.Set(ContextKeyAuthorized, true)
		c.Next()
	}
}

// OptionalAuth records whether the request carries a valid token and lets it
// through either way.
func (g *Gate) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, err := g.Authorize(c.Request.Header)
		c.Set(ContextKeyAuthorized, err == nil)
		c.Next()
	}
}

// IsAuthorized reports whether the request was authorized by one of the
// gate's middlewares
func IsAuthorized(c *gin.Context) bool {
	return c.GetBool(ContextKeyAuthorized)
}
