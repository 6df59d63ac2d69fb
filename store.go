package sessionguard

import (
	"context"
	"sync"
)

// MemoryTokenStore keeps the credential in process memory. Suitable for
// tests and for shells that do not want the token to outlive the process.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// MemoryIntentStore holds the single pending redirect intent. Volatile by
// contract: it belongs to one client instance and is never shared.
type MemoryIntentStore struct {
	mu   sync.Mutex
	path string
}

// NewMemoryIntentStore creates an empty intent store.
func NewMemoryIntentStore() *MemoryIntentStore {
	return &MemoryIntentStore{}
}

func (s *MemoryIntentStore) Set(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
}

func (s *MemoryIntentStore) Peek() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

func (s *MemoryIntentStore) Consume() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.path
	s.path = ""
	return path
}

func (s *MemoryIntentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = ""
}
