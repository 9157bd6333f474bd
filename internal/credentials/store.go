// Package credentials persists the OAuth tokens that authorize storage API calls.
package credentials

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
)

// ErrNotFound is returned when no credential exists for a user.
var ErrNotFound = errors.New("credential not found")

// Store keeps one OAuth token per user.
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the token stored for userID, or ErrNotFound.
	Get(ctx context.Context, userID string) (*oauth2.Token, error)
	// Put stores token for userID, replacing any previous one.
	Put(ctx context.Context, userID string, token *oauth2.Token) error
	// Delete removes the token for userID. Deleting a missing token is not an error.
	Delete(ctx context.Context, userID string) error
}

// Pruner removes credentials that were not written since a cutoff.
type Pruner interface {
	// Prune deletes every credential last stored before the cutoff and
	// reports how many were removed.
	Prune(ctx context.Context, before time.Time) (int64, error)
}
