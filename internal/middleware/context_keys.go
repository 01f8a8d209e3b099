package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated user's ID in the Gin context.
// Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
			return userID, true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		// This should not happen if the auth middleware sets it correctly
		return "", false
	}

	return userID, true
}
