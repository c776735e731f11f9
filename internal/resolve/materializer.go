package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/account"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/logger"
)

const (
	hirerPosition    = "Account Owner"
	companyPlacehold = "Tell candidates about your company."
	fallbackCompany  = "My Company"
	fallbackHeadline = "Open to opportunities"
)

// Materializer turns an authenticated principal into a local account.
// It is the ONLY place where account-creation logic lives; the OAuth
// callback, password login and explicit registration all go through it.
type Materializer struct {
	store account.Store
}

func NewMaterializer(store account.Store) *Materializer {
	return &Materializer{store: store}
}

// Materialize looks up the account for the principal and creates it,
// with its role profile, when missing. Returns the account and whether
// it was created by this call.
//
// Once an account exists the intended role is ignored: re-running
// resolution for the same principal never mutates the account or
// duplicates profile records. A lost insert race is retried at the
// lookup step exactly once.
func (m *Materializer) Materialize(
	ctx context.Context,
	principal *identity.Principal,
	intendedRole account.Role,
) (*account.Account, bool, error) {

	const op = "materialize"

	if principal == nil || principal.ID == "" {
		return nil, false, &Error{
			Kind: KindInvariantViolation,
			Op:   op,
			Err:  errors.New("principal missing id"),
		}
	}

	acct, err := m.store.GetAccount(ctx, principal.ID)
	if err == nil {
		return acct, false, nil
	}
	if !errors.Is(err, account.ErrNotFound) {
		return nil, false, storeErr(op, KindUpstreamTimeout, err)
	}

	if !intendedRole.Valid() {
		return nil, false, &Error{
			Kind: KindInvariantViolation,
			Op:   op,
			Err:  fmt.Errorf("unrecognized role %q", intendedRole),
		}
	}

	first, last := principalNames(principal)
	acct = &account.Account{
		ID:        principal.ID,
		Email:     principal.Email,
		FirstName: first,
		LastName:  last,
		Role:      intendedRole,
	}

	if err := m.store.InsertAccount(ctx, acct); err != nil {
		if errors.Is(err, account.ErrConflict) {
			// Lost the first-insert race. The store's uniqueness
			// constraint is the arbiter; re-enter at the lookup
			// step once.
			existing, lookupErr := m.store.GetAccount(ctx, principal.ID)
			if lookupErr == nil {
				return existing, false, nil
			}
			return nil, false, &Error{Kind: KindAccountConflict, Op: op, Err: err}
		}
		return nil, false, storeErr(op, KindAccountConflict, err)
	}

	if err := m.createRoleProfile(ctx, acct, principal.DisplayName); err != nil {
		// The account row is in place but its profile is not. There is
		// no rollback; the state is surfaced for manual repair.
		logger.Error("account left without role profile", map[string]any{
			"account_id": acct.ID,
			"role":       string(acct.Role),
			"error":      err.Error(),
		})
		return nil, false, storeErr(op, KindProfileCreationFailed, err)
	}

	return acct, true, nil
}

// createRoleProfile creates the role-specific extension records.
// Account must already exist; hirer accounts additionally get a
// company in the same unit of work.
func (m *Materializer) createRoleProfile(
	ctx context.Context,
	acct *account.Account,
	displayName string,
) error {

	switch acct.Role {
	case account.RoleHirer:
		company := &account.Company{
			ID:          uuid.NewString(),
			Name:        companyName(displayName, acct.FirstName),
			Description: companyPlacehold,
		}
		if err := m.store.InsertCompany(ctx, company); err != nil {
			return err
		}
		return m.store.InsertHirerProfile(ctx, &account.HirerProfile{
			AccountID: acct.ID,
			CompanyID: company.ID,
			Position:  hirerPosition,
		})

	case account.RoleApplicant:
		headline := displayName
		if headline == "" {
			headline = fallbackHeadline
		}
		return m.store.InsertApplicantProfile(ctx, &account.ApplicantProfile{
			AccountID: acct.ID,
			Headline:  headline,
		})
	}

	return fmt.Errorf("unrecognized role %q", acct.Role)
}

// principalNames derives first and last name from the principal.
// Explicit given/family name claims win; otherwise the display name
// is split on whitespace: first token, then the rest joined.
func principalNames(p *identity.Principal) (first, last string) {
	first = p.Claim("given_name")
	last = p.Claim("family_name")
	if first != "" || last != "" {
		return first, last
	}

	tokens := strings.Fields(p.DisplayName)
	if len(tokens) == 0 {
		return "", ""
	}
	return tokens[0], strings.Join(tokens[1:], " ")
}

func companyName(displayName, firstName string) string {
	owner := displayName
	if owner == "" {
		owner = firstName
	}
	if owner == "" {
		return fallbackCompany
	}
	return owner + "'s Company"
}
