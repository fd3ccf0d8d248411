package secrets

import "sync"

// MemStore is an in-memory Store used by tests.
type MemStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemStore constructs an empty MemStore.
func NewMemStore() *MemStore { return &MemStore{} }

// Save stores the token, replacing any previous value.
func (s *MemStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

// Load returns the stored token or ErrNotFound.
func (s *MemStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", ErrNotFound
	}
	return s.token, nil
}

// Delete removes the stored token.
func (s *MemStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}
