package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

// SessionStore defines the interface for session storage and retrieval.
type SessionStore interface {
	// Get retrieves the session attached to the request context
	Get(c *gin.Context) Session
}

// Session defines the interface for session data operations.
// Changes are only persisted by Save, which must run before the response body is written.
type Session interface {
	// Get retrieves a value from the session by key
	Get(key string) any
	// Set stores a value in the session with the given key
	Set(key string, value any)
	// Delete removes a key-value pair from the session
	Delete(key string)
	// Clear removes all data from the session
	Clear()
	// Save persists the session changes to the storage backend
	Save(c *gin.Context) error
}

// IdentityVerifier turns the ID token returned by the token endpoint into a
// stable user identifier.
type IdentityVerifier interface {
	Subject(ctx context.Context, rawIDToken string) (string, error)
}
