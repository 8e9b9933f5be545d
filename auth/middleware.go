package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/resumify/backend/models"
)

// AuthSessionKey is the key used to store the session in gin context
const AuthSessionKey = "auth_session"

// AuthMiddleware creates a middleware for JWT authentication
func AuthMiddleware(sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "Authorization header required",
				Code:  http.StatusUnauthorized,
			})
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "Invalid authorization header format",
				Code:  http.StatusUnauthorized,
			})
			return
		}

		session, err := sessions.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Invalid or expired token",
				Code:    http.StatusUnauthorized,
				Details: err.Error(),
			})
			return
		}

		c.Set(AuthSessionKey, session)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches a session when a valid token is present
// and lets the request through either way
func OptionalAuthMiddleware(sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if session, err := sessions.Authenticate(c.Request.Context(), tokenString); err == nil {
				c.Set(AuthSessionKey, session)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetSession retrieves the session from gin context
func GetSession(c *gin.Context) *Session {
	session, exists := c.Get(AuthSessionKey)
	if !exists {
		return nil
	}
	return session.(*Session)
}

// IsAuthenticated checks if user is authenticated
func IsAuthenticated(c *gin.Context) bool {
	return GetSession(c) != nil
}
