package resolve

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/account"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/credentials"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity/provider"
)

// Resolution is the outcome of a successful identity resolution:
// the account the caller now acts as, whether this request created
// it, and the single path the caller should be redirected to.
type Resolution struct {
	Account      *account.Account
	Created      bool
	RedirectPath string
}

// RegisterParams is the input to explicit registration.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      account.Role
}

// Resolver implements the identity resolution and routing flow.
// Each call is one request-scoped unit of work; the only shared
// state between concurrent calls is the external stores.
type Resolver struct {
	providers    *provider.Registry
	credentials  *credentials.Service
	accounts     account.Store
	materializer *Materializer
}

func NewResolver(
	providers *provider.Registry,
	creds *credentials.Service,
	accounts account.Store,
) *Resolver {
	return &Resolver{
		providers:    providers,
		credentials:  creds,
		accounts:     accounts,
		materializer: NewMaterializer(accounts),
	}
}

// ResolveViaCode exchanges a one-time authorization code, materializes
// the account when needed and computes the redirect destination.
// intendedRole is only consulted when no account exists yet.
func (r *Resolver) ResolveViaCode(
	ctx context.Context,
	providerName string,
	code string,
	codeVerifier string,
	intendedRole account.Role,
) (*Resolution, error) {

	const op = "resolve_via_code"

	p, err := r.providers.Get(providerName)
	if err != nil {
		return nil, &Error{Kind: KindExchangeFailed, Op: op, Err: err}
	}

	principal, err := p.ExchangeCode(ctx, code, codeVerifier)
	if err != nil {
		return nil, storeErr(op, KindExchangeFailed, err)
	}

	acct, created, err := r.materializer.Materialize(ctx, principal, intendedRole)
	if err != nil {
		return nil, err
	}

	return r.resolution(acct, created)
}

// ResolveViaPassword authenticates the email/password pair and
// computes the redirect destination. No account write is performed:
// the account was materialized at registration time.
func (r *Resolver) ResolveViaPassword(
	ctx context.Context,
	email string,
	password string,
) (*Resolution, error) {

	const op = "resolve_via_password"

	principal, err := r.credentials.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, credentials.ErrInvalidCredentials) {
			return nil, &Error{Kind: KindInvalidCredentials, Op: op, Err: err}
		}
		return nil, storeErr(op, KindInvalidCredentials, err)
	}

	acct, err := r.accounts.GetAccount(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			// A credential without its account means registration was
			// torn apart upstream; do not silently re-create it.
			return nil, &Error{Kind: KindInvariantViolation, Op: op, Err: err}
		}
		return nil, storeErr(op, KindUpstreamTimeout, err)
	}

	return r.resolution(acct, false)
}

// Register creates an account, role profile and password credential
// in one pass, bypassing the exists branch: a taken email fails with
// AlreadyExists instead of resolving to the existing account.
func (r *Resolver) Register(
	ctx context.Context,
	params RegisterParams,
) (*Resolution, error) {

	const op = "register"

	if !params.Role.Valid() {
		return nil, &Error{
			Kind: KindInvariantViolation,
			Op:   op,
			Err:  errors.New("unrecognized role " + string(params.Role)),
		}
	}

	_, err := r.accounts.GetAccountByEmail(ctx, params.Email)
	if err == nil {
		return nil, &Error{Kind: KindAlreadyExists, Op: op}
	}
	if !errors.Is(err, account.ErrNotFound) {
		return nil, storeErr(op, KindUpstreamTimeout, err)
	}

	displayName := strings.TrimSpace(params.FirstName + " " + params.LastName)
	principal := &identity.Principal{
		ID:          uuid.NewString(),
		Email:       params.Email,
		DisplayName: displayName,
		Claims: map[string]string{
			"given_name":  params.FirstName,
			"family_name": params.LastName,
		},
	}

	acct, created, err := r.materializer.Materialize(ctx, principal, params.Role)
	if err != nil {
		// The pre-check raced another registration for the same email.
		if IsKind(err, KindAccountConflict) {
			return nil, &Error{Kind: KindAlreadyExists, Op: op, Err: err}
		}
		return nil, err
	}

	if err := r.credentials.Enroll(
		ctx,
		acct.ID,
		params.Email,
		displayName,
		params.Password,
	); err != nil {
		if errors.Is(err, credentials.ErrAlreadyRegistered) {
			return nil, &Error{Kind: KindAlreadyExists, Op: op, Err: err}
		}
		return nil, storeErr(op, KindProfileCreationFailed, err)
	}

	now := time.Now()
	if err := r.accounts.UpdateAccount(ctx, acct.ID, account.Patch{
		LastLoginAt: &now,
	}); err == nil {
		acct.LastLoginAt = &now
	}

	return r.resolution(acct, created)
}

// CompleteOnboarding marks the account's profile as completed and
// returns the refreshed redirect destination.
func (r *Resolver) CompleteOnboarding(
	ctx context.Context,
	accountID string,
) (*Resolution, error) {

	const op = "complete_onboarding"

	done := true
	if err := r.accounts.UpdateAccount(ctx, accountID, account.Patch{
		ProfileCompleted: &done,
	}); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, &Error{Kind: KindInvariantViolation, Op: op, Err: err}
		}
		return nil, storeErr(op, KindUpstreamTimeout, err)
	}

	acct, err := r.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, storeErr(op, KindUpstreamTimeout, err)
	}

	return r.resolution(acct, false)
}

// Account returns the account for an authenticated session.
func (r *Resolver) Account(ctx context.Context, accountID string) (*account.Account, error) {
	return r.accounts.GetAccount(ctx, accountID)
}

func (r *Resolver) resolution(acct *account.Account, created bool) (*Resolution, error) {
	path, err := RedirectPath(acct, created)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Account:      acct,
		Created:      created,
		RedirectPath: path,
	}, nil
}
