package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDKey is the gin context key holding the authenticated caller's id
const UserIDKey = "user_id"

// TokenVerifier resolves a bearer token to a user id.
// auth.TokenService satisfies it.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// RequireAuth rejects requests without a valid bearer token with
// 401 {"msg":"Unauthorized"}
func RequireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
			return
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
			return
		}

		// store user_id in context so handlers can use it
		c.Set(UserIDKey, userID)

		c.Next()
	}
}

// OptionalAuth records the caller's id when a valid bearer token is
// present and never rejects.
func OptionalAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := ExtractToken(c.Request); token != "" {
			if userID, err := tokens.Verify(token); err == nil {
				c.Set(UserIDKey, userID)
			}
		}
		c.Next()
	}
}

// ExtractToken returns the token of an "Authorization: Bearer <token>"
// header, or "" when absent or malformed.
func ExtractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserIDFromContext returns the id stored by RequireAuth or OptionalAuth
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
