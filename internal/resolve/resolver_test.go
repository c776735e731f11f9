package resolve

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/account"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/credentials"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity/provider"
)

// fakeProvider hands out configured principals and enforces the
// single-use property of authorization codes.
type fakeProvider struct {
	mu         sync.Mutex
	principals map[string]*identity.Principal // code -> principal
	consumed   map[string]bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		principals: make(map[string]*identity.Principal),
		consumed:   make(map[string]bool),
	}
}

func (f *fakeProvider) issue(code string, p *identity.Principal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.principals[code] = p
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) AuthCodeURL(state, codeChallenge string) string {
	return "https://idp.example/authorize?state=" + state
}

func (f *fakeProvider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*identity.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.consumed[code] {
		return nil, errors.New("authorization code already consumed")
	}
	p, ok := f.principals[code]
	if !ok {
		return nil, errors.New("invalid authorization code")
	}
	f.consumed[code] = true
	return p, nil
}

type testEnv struct {
	resolver *Resolver
	provider *fakeProvider
	accounts *account.MemoryStore
	creds    *credentials.Service
}

func newTestEnv() *testEnv {
	fake := newFakeProvider()
	accounts := account.NewMemoryStore()
	creds := credentials.NewService(credentials.NewMemoryStore())

	return &testEnv{
		resolver: NewResolver(provider.NewRegistry(fake), creds, accounts),
		provider: fake,
		accounts: accounts,
		creds:    creds,
	}
}

func TestResolveViaCode_NewHirer(t *testing.T) {
	env := newTestEnv()
	env.provider.issue("code-1", &identity.Principal{
		ID:          "idp-user-1",
		Email:       "jane@example.com",
		DisplayName: "Jane Smith",
	})

	res, err := env.resolver.ResolveViaCode(
		context.Background(), "fake", "code-1", "verifier", account.RoleHirer)
	require.NoError(t, err)
	require.True(t, res.Created)
	require.Equal(t, "/onboarding/hirer", res.RedirectPath)
	require.Equal(t, "Jane", res.Account.FirstName)
	require.Equal(t, "Smith", res.Account.LastName)
}

// Exchanging the same authorization code twice fails on the second
// attempt; it never yields a second valid principal.
func TestResolveViaCode_SingleUseCode(t *testing.T) {
	env := newTestEnv()
	env.provider.issue("code-1", &identity.Principal{
		ID:    "idp-user-1",
		Email: "jane@example.com",
	})

	_, err := env.resolver.ResolveViaCode(
		context.Background(), "fake", "code-1", "verifier", account.RoleApplicant)
	require.NoError(t, err)

	_, err = env.resolver.ResolveViaCode(
		context.Background(), "fake", "code-1", "verifier", account.RoleApplicant)
	require.True(t, IsKind(err, KindExchangeFailed))
}

func TestResolveViaCode_UnknownProvider(t *testing.T) {
	env := newTestEnv()

	_, err := env.resolver.ResolveViaCode(
		context.Background(), "nope", "code", "verifier", account.RoleApplicant)
	require.True(t, IsKind(err, KindExchangeFailed))
}

// An existing applicant with a completed profile lands on the
// dashboard without any write.
func TestResolveViaCode_ExistingCompletedApplicant(t *testing.T) {
	env := newTestEnv()

	acct := &account.Account{
		ID:               "idp-user-1",
		Email:            "jane@example.com",
		Role:             account.RoleApplicant,
		ProfileCompleted: true,
	}
	require.NoError(t, env.accounts.InsertAccount(context.Background(), acct))

	env.provider.issue("code-1", &identity.Principal{
		ID:    "idp-user-1",
		Email: "jane@example.com",
	})

	res, err := env.resolver.ResolveViaCode(
		context.Background(), "fake", "code-1", "verifier", account.RoleHirer)
	require.NoError(t, err)
	require.False(t, res.Created)
	require.Equal(t, "/dashboard/applicant", res.RedirectPath)

	accounts, companies, hirers, applicants := env.accounts.Counts()
	require.Equal(t, 1, accounts)
	require.Equal(t, 0, companies)
	require.Equal(t, 0, hirers)
	require.Equal(t, 0, applicants)
}

func TestResolveViaCode_ExistingIncompleteApplicant(t *testing.T) {
	env := newTestEnv()

	acct := &account.Account{
		ID:    "idp-user-1",
		Email: "jane@example.com",
		Role:  account.RoleApplicant,
	}
	require.NoError(t, env.accounts.InsertAccount(context.Background(), acct))

	env.provider.issue("code-1", &identity.Principal{ID: "idp-user-1"})

	res, err := env.resolver.ResolveViaCode(
		context.Background(), "fake", "code-1", "verifier", account.RoleApplicant)
	require.NoError(t, err)
	require.Equal(t, "/onboarding/applicant", res.RedirectPath)
}

func TestRegister_ThenLogin(t *testing.T) {
	env := newTestEnv()

	res, err := env.resolver.Register(context.Background(), RegisterParams{
		Email:     "jane@example.com",
		Password:  "correct horse",
		FirstName: "Jane",
		LastName:  "Smith",
		Role:      account.RoleApplicant,
	})
	require.NoError(t, err)
	require.True(t, res.Created)
	require.Equal(t, "/onboarding/applicant", res.RedirectPath)
	require.NotNil(t, res.Account.LastLoginAt)

	login, err := env.resolver.ResolveViaPassword(
		context.Background(), "jane@example.com", "correct horse")
	require.NoError(t, err)
	require.False(t, login.Created)
	require.Equal(t, res.Account.ID, login.Account.ID)
	require.Equal(t, "/onboarding/applicant", login.RedirectPath)
}

// Wrong password fails with InvalidCredentials before any account
// state is consulted.
func TestResolveViaPassword_WrongPassword(t *testing.T) {
	env := newTestEnv()

	_, err := env.resolver.Register(context.Background(), RegisterParams{
		Email:     "jane@example.com",
		Password:  "correct horse",
		FirstName: "Jane",
		Role:      account.RoleApplicant,
	})
	require.NoError(t, err)

	_, err = env.resolver.ResolveViaPassword(
		context.Background(), "jane@example.com", "wrong horse")
	require.True(t, IsKind(err, KindInvalidCredentials))
}

func TestResolveViaPassword_UnknownEmail(t *testing.T) {
	env := newTestEnv()

	_, err := env.resolver.ResolveViaPassword(
		context.Background(), "nobody@example.com", "whatever")
	require.True(t, IsKind(err, KindInvalidCredentials))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv()

	params := RegisterParams{
		Email:     "jane@example.com",
		Password:  "correct horse",
		FirstName: "Jane",
		Role:      account.RoleApplicant,
	}

	_, err := env.resolver.Register(context.Background(), params)
	require.NoError(t, err)

	_, err = env.resolver.Register(context.Background(), params)
	require.True(t, IsKind(err, KindAlreadyExists))
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	env := newTestEnv()

	_, err := env.resolver.Register(context.Background(), RegisterParams{
		Email:     "jane@example.com",
		Password:  "correct horse",
		FirstName: "Jane",
		Role:      account.Role("superuser"),
	})
	require.True(t, IsKind(err, KindInvariantViolation))
}

func TestCompleteOnboarding(t *testing.T) {
	env := newTestEnv()

	res, err := env.resolver.Register(context.Background(), RegisterParams{
		Email:     "jane@example.com",
		Password:  "correct horse",
		FirstName: "Jane",
		Role:      account.RoleHirer,
	})
	require.NoError(t, err)
	require.Equal(t, "/onboarding/hirer", res.RedirectPath)

	done, err := env.resolver.CompleteOnboarding(context.Background(), res.Account.ID)
	require.NoError(t, err)
	require.True(t, done.Account.ProfileCompleted)
	require.Equal(t, "/dashboard/hirer", done.RedirectPath)
}
