package account

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process account store with the same uniqueness
// semantics as the Postgres store. Used by tests and local development.
type MemoryStore struct {
	mu         sync.Mutex
	accounts   map[string]*Account
	companies  map[string]*Company
	hirers     map[string]*HirerProfile     // keyed by account id
	applicants map[string]*ApplicantProfile // keyed by account id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:   make(map[string]*Account),
		companies:  make(map[string]*Company),
		hirers:     make(map[string]*HirerProfile),
		applicants: make(map[string]*ApplicantProfile),
	}
}

func (s *MemoryStore) GetAccount(ctx context.Context, id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertAccount(ctx context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[a.ID]; ok {
		return ErrConflict
	}
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return ErrConflict
		}
	}

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateAccount(ctx context.Context, id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	if patch.ProfileCompleted != nil {
		a.ProfileCompleted = *patch.ProfileCompleted
	}
	if patch.LastLoginAt != nil {
		t := *patch.LastLoginAt
		a.LastLoginAt = &t
	}
	a.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) InsertCompany(ctx context.Context, c *Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.CreatedAt = time.Now()
	cp := *c
	s.companies[c.ID] = &cp
	return nil
}

func (s *MemoryStore) InsertHirerProfile(ctx context.Context, p *HirerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.CreatedAt = time.Now()
	cp := *p
	s.hirers[p.AccountID] = &cp
	return nil
}

func (s *MemoryStore) InsertApplicantProfile(ctx context.Context, p *ApplicantProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.CreatedAt = time.Now()
	cp := *p
	s.applicants[p.AccountID] = &cp
	return nil
}

// Company returns the stored company by id, or nil.
func (s *MemoryStore) Company(id string) *Company {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.companies[id]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

// HirerProfile returns the stored hirer profile for an account, or nil.
func (s *MemoryStore) HirerProfile(accountID string) *HirerProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.hirers[accountID]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ApplicantProfile returns the stored applicant profile for an account, or nil.
func (s *MemoryStore) ApplicantProfile(accountID string) *ApplicantProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.applicants[accountID]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// Counts reports the number of stored records of each kind.
func (s *MemoryStore) Counts() (accounts, companies, hirers, applicants int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts), len(s.companies), len(s.hirers), len(s.applicants)
}
