package db

import (
	"context"
	"database/sql"
)

const schemaMigration = `
CREATE TABLE IF NOT EXISTS accounts (
    id text PRIMARY KEY,
    email text NOT NULL,
    first_name text NOT NULL DEFAULT '',
    last_name text NOT NULL DEFAULT '',
    role text NOT NULL CHECK (role IN ('applicant', 'hirer')),
    profile_completed boolean NOT NULL DEFAULT false,
    last_login_at timestamptz,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_lower_unique
ON accounts (LOWER(email));

CREATE TABLE IF NOT EXISTS companies (
    id text PRIMARY KEY,
    name text NOT NULL,
    description text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS hirer_profiles (
    account_id text PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
    company_id text NOT NULL REFERENCES companies(id),
    position text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS applicant_profiles (
    account_id text PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
    headline text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS credentials (
    account_id text PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
    email text NOT NULL,
    display_name text NOT NULL DEFAULT '',
    password_hash text NOT NULL,
    hash_version text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS credentials_email_lower_unique
ON credentials (LOWER(email));
`

// RunSchemaMigration creates the account, profile and credential
// tables. The uniqueness indexes on accounts.id and accounts.email
// are what arbitrates concurrent first-time inserts.
func RunSchemaMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaMigration)
	return err
}
