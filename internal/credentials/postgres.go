package credentials

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/db"
)

// PostgresStore is the canonical credential store.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	var c Credential
	err := s.db.QueryRowContext(ctx, `
		SELECT account_id, email, display_name,
		       password_hash, hash_version, created_at, updated_at
		FROM credentials
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(
		&c.AccountID,
		&c.Email,
		&c.DisplayName,
		&c.PasswordHash,
		&c.HashVersion,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) Insert(ctx context.Context, c *Credential) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials
			(account_id, email, display_name,
			 password_hash, hash_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		c.AccountID,
		c.Email,
		c.DisplayName,
		c.PasswordHash,
		c.HashVersion,
		c.CreatedAt,
		c.UpdatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
