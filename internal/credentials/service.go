package credentials

import (
	"context"
	"errors"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("credentials already exist")
)

// Service verifies and enrolls password credentials. It acts as the
// password-path identity authority: a successful Authenticate yields
// a principal exactly as an OAuth code exchange would, with claims
// sourced from registration data.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Authenticate verifies the email/password pair and returns the
// principal it authenticates. It reads only the credential store;
// account state is never consulted here.
func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (*identity.Principal, error) {

	cred, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// hide whether the credential exists
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := VerifyPassword(cred.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &identity.Principal{
		ID:            cred.AccountID,
		Email:         cred.Email,
		DisplayName:   cred.DisplayName,
		EmailVerified: false,
	}, nil
}

// Enroll stores a new password credential for an account.
// Fails with ErrAlreadyRegistered when the email is taken.
func (s *Service) Enroll(
	ctx context.Context,
	accountID string,
	email string,
	displayName string,
	password string,
) error {

	hash, version, err := HashPassword(password)
	if err != nil {
		return err
	}

	err = s.store.Insert(ctx, &Credential{
		AccountID:    accountID,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		HashVersion:  version,
	})
	if errors.Is(err, ErrDuplicate) {
		return ErrAlreadyRegistered
	}
	return err
}
