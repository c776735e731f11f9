package account

import "time"

// Role classifies an account as job seeker or job poster.
// Persisted as text; never extend without a migration.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleHirer     Role = "hirer"
)

// Valid reports whether r is one of the defined role values.
func (r Role) Valid() bool {
	return r == RoleApplicant || r == RoleHirer
}

// Account is the local user record, keyed by the identity
// authority's principal id. Identity fields never change after
// creation; only ProfileCompleted and LastLoginAt are updated.
type Account struct {
	ID               string
	Email            string
	FirstName        string
	LastName         string
	Role             Role
	ProfileCompleted bool
	LastLoginAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Company is the employer record created alongside a hirer account.
type Company struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// HirerProfile links a hirer account to its company.
// Exactly one exists per hirer account.
type HirerProfile struct {
	AccountID string
	CompanyID string
	Position  string
	CreatedAt time.Time
}

// ApplicantProfile is the job-seeker extension record.
// Exactly one exists per applicant account.
type ApplicantProfile struct {
	AccountID string
	Headline  string
	CreatedAt time.Time
}

// Patch holds the mutable account fields for partial updates.
// Nil fields are left unchanged.
type Patch struct {
	ProfileCompleted *bool
	LastLoginAt      *time.Time
}
