package credentials

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

type memoryEntry struct {
	token     oauth2.Token
	updatedAt time.Time
}

// MemoryStore keeps tokens in process memory. Tokens are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[userID]
	if !ok {
		return nil, ErrNotFound
	}
	tok := entry.token
	return &tok, nil
}

func (s *MemoryStore) Put(_ context.Context, userID string, token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[userID] = memoryEntry{token: *token, updatedAt: s.now()}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, userID)
	return nil
}

func (s *MemoryStore) Prune(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for userID, entry := range s.entries {
		if entry.updatedAt.Before(before) {
			delete(s.entries, userID)
			removed++
		}
	}
	return removed, nil
}
