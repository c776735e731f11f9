package provider

import (
	"context"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity"
)

// OAuthProvider defines the contract every external identity authority
// must implement. Implementations return identity facts only and must
// not perform account creation, routing, or session management.
//
// Authorization codes are single-use at the authority: exchanging the
// same code twice must fail on the second attempt.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google", "linkedin").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL.
	// State and PKCE parameters are provided by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode exchanges the authorization code for provider
	// credentials and returns the authenticated principal.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*identity.Principal, error)
}
