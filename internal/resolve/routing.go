package resolve

import (
	"fmt"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/account"
)

// RedirectPath computes the single destination the caller should be
// redirected to after resolution. Pure and side-effect-free.
//
// Freshly created accounts and accounts with an incomplete profile
// land on onboarding; everyone else lands on their dashboard. A role
// outside the defined enum fails loudly rather than guessing a route:
// it signals upstream data corruption.
func RedirectPath(acct *account.Account, created bool) (string, error) {
	if !acct.Role.Valid() {
		return "", &Error{
			Kind: KindInvariantViolation,
			Op:   "route",
			Err:  fmt.Errorf("unrecognized role %q", acct.Role),
		}
	}

	if created || !acct.ProfileCompleted {
		return "/onboarding/" + string(acct.Role), nil
	}
	return "/dashboard/" + string(acct.Role), nil
}
