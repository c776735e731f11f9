package credentials

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no credential exists for the email.
	ErrNotFound = errors.New("credential not found")

	// ErrDuplicate is returned when a credential for the email
	// already exists.
	ErrDuplicate = errors.New("credential already exists")
)

// Credential is a password credential bound to one account.
// DisplayName carries the registration-time profile claims so that
// password logins can reconstruct a principal without touching the
// account store.
type Credential struct {
	AccountID    string
	Email        string
	DisplayName  string
	PasswordHash string
	HashVersion  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store persists password credentials, keyed by email
// (case-insensitive).
type Store interface {
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	Insert(ctx context.Context, c *Credential) error
}
