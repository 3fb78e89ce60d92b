package memory

import (
	"context"
	"sync"

	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/identity"
)

// Store keeps the token for the lifetime of the process only.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore creates an empty in-memory token store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) LoadToken(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", identity.ErrNoToken
	}
	return s.token, nil
}

func (s *Store) SaveToken(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}
