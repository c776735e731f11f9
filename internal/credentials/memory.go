package credentials

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process credential store for tests and
// local development.
type MemoryStore struct {
	mu    sync.Mutex
	creds map[string]*Credential // keyed by lowercase email
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{creds: make(map[string]*Credential)}
}

func (s *MemoryStore) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.creds[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) Insert(ctx context.Context, c *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(c.Email)
	if _, ok := s.creds[key]; ok {
		return ErrDuplicate
	}

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	cp := *c
	s.creds[key] = &cp
	return nil
}
