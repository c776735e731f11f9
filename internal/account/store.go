package account

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no account exists for the given key.
	ErrNotFound = errors.New("account not found")

	// ErrConflict is returned when an insert violates the account id
	// or email uniqueness constraint. The store is the sole arbiter
	// of mutual exclusion between concurrent first-time inserts.
	ErrConflict = errors.New("account already exists")
)

// Store persists accounts and their role-specific extension records.
// Implementations must enforce uniqueness of account id and email so
// that exactly one of two racing inserts succeeds.
type Store interface {
	GetAccount(ctx context.Context, id string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	InsertAccount(ctx context.Context, a *Account) error
	UpdateAccount(ctx context.Context, id string, patch Patch) error

	InsertCompany(ctx context.Context, c *Company) error
	InsertHirerProfile(ctx context.Context, p *HirerProfile) error
	InsertApplicantProfile(ctx context.Context, p *ApplicantProfile) error
}
