package auth

import "github.com/gin-gonic/gin"

// ContextKey is a typed key for context values.
type ContextKey string

// Context keys for storing request information in the gin context.
const (
	// CtxKeyUserID is the context key for the signed-in user's ID.
	CtxKeyUserID ContextKey = "user_id"
	// CtxKeyRequestID is the context key for the per-request correlation ID.
	CtxKeyRequestID ContextKey = "request_id"
)

// SetUserID stores the resolved user ID for later log lines.
func SetUserID(c *gin.Context, userID string) {
	c.Set(string(CtxKeyUserID), userID)
}

// UserID retrieves the user ID from context.
func UserID(c *gin.Context) (string, bool) {
	return getContextString(c, CtxKeyUserID)
}

// SetRequestID stores the request's correlation ID.
func SetRequestID(c *gin.Context, id string) {
	c.Set(string(CtxKeyRequestID), id)
}

// RequestID retrieves the request's correlation ID.
func RequestID(c *gin.Context) (string, bool) {
	return getContextString(c, CtxKeyRequestID)
}

// getContextString safely retrieves a string from context.
func getContextString(c *gin.Context, key ContextKey) (string, bool) {
	val, exists := c.Get(string(key))
	if !exists {
		return "", false
	}
	if s, ok := val.(string); ok {
		return s, true
	}
	return "", false
}
