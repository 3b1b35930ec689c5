package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/globetrotter/server/internal/apperrors"
	"github.com/globetrotter/server/internal/service"
)

const (
	contextUserID = "userId"
	contextEmail  = "email"
)

// AuthMiddleware returns a Gin middleware for authentication. The session
// token is read from the session cookie, falling back to an
// "Authorization: Bearer" header for API clients.
func AuthMiddleware(svc service.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}

		identity, err := svc.CurrentUser(c.Request.Context(), token)
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}

		// Set user ID in the context
		c.Set(contextUserID, identity.UserID)
		c.Set(contextEmail, identity.Email)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header, or "".
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// currentUserID returns the user set by AuthMiddleware.
func currentUserID(c *gin.Context) string {
	return c.GetString(contextUserID)
}

// requireJSON aborts requests to JSON endpoints that send another body type.
func requireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > 0 && c.ContentType() != "application/json" {
			writeError(c, apperrors.Validation("Content-Type must be application/json", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}
