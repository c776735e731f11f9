package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/db"
)

// PostgresStore is the canonical account store.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const accountColumns = `
	id, email, first_name, last_name, role,
	profile_completed, last_login_at, created_at, updated_at
`

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.FirstName,
		&a.LastName,
		&a.Role,
		&a.ProfileCompleted,
		&a.LastLoginAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) GetAccount(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id)
	return scanAccount(row)
}

func (s *PostgresStore) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`, email)
	return scanAccount(row)
}

func (s *PostgresStore) InsertAccount(ctx context.Context, a *Account) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts
			(id, email, first_name, last_name, role,
			 profile_completed, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		a.ID,
		a.Email,
		a.FirstName,
		a.LastName,
		a.Role,
		a.ProfileCompleted,
		a.LastLoginAt,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (s *PostgresStore) UpdateAccount(ctx context.Context, id string, patch Patch) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	if patch.ProfileCompleted != nil {
		args = append(args, *patch.ProfileCompleted)
		sets = append(sets, fmt.Sprintf("profile_completed = $%d", len(args)))
	}
	if patch.LastLoginAt != nil {
		args = append(args, *patch.LastLoginAt)
		sets = append(sets, fmt.Sprintf("last_login_at = $%d", len(args)))
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET `+strings.Join(sets, ", ")+`
		WHERE id = $1
	`, args...)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) InsertCompany(ctx context.Context, c *Company) error {
	c.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`,
		c.ID,
		c.Name,
		c.Description,
		c.CreatedAt,
	)
	return err
}

func (s *PostgresStore) InsertHirerProfile(ctx context.Context, p *HirerProfile) error {
	p.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hirer_profiles (account_id, company_id, position, created_at)
		VALUES ($1, $2, $3, $4)
	`,
		p.AccountID,
		p.CompanyID,
		p.Position,
		p.CreatedAt,
	)
	return err
}

func (s *PostgresStore) InsertApplicantProfile(ctx context.Context, p *ApplicantProfile) error {
	p.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applicant_profiles (account_id, headline, created_at)
		VALUES ($1, $2, $3)
	`,
		p.AccountID,
		p.Headline,
		p.CreatedAt,
	)
	return err
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
