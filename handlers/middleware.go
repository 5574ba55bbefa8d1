package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenResolver turns a bearer token into the user id it was issued for
type TokenResolver interface {
	Resolve(token string) (uuid.UUID, error)
}

const userIDKey = "marketly.user_id"

// RequireAuth rejects requests without a valid bearer token
func RequireAuth(tokens TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveBearer(c, tokens)
		if !ok {
			respondError(c, http.StatusUnauthorized, CodeUnauthorized, "Missing or invalid token")
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalAuth records the caller's user id when a valid bearer token is
// present. Missing or invalid tokens leave the request anonymous.
func OptionalAuth(tokens TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := resolveBearer(c, tokens); ok {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user id, if any
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func resolveBearer(c *gin.Context, tokens TokenResolver) (uuid.UUID, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return uuid.Nil, false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return uuid.Nil, false
	}
	userID, err := tokens.Resolve(token)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
