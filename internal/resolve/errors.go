package resolve

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the closed set of failure categories the resolution flow
// can surface. Every error returned by this package carries exactly
// one kind; callers switch on it, never on error strings.
type Kind string

const (
	// KindInvalidCredentials: the identity authority rejected the
	// email/password pair.
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"

	// KindExchangeFailed: the authorization code was invalid, expired
	// or already consumed. Codes are single-use; this is not retryable.
	KindExchangeFailed Kind = "EXCHANGE_FAILED"

	// KindAccountConflict: a concurrent resolution inserted the account
	// first and the follow-up lookup also failed. Recoverable by
	// re-entering at the lookup step.
	KindAccountConflict Kind = "ACCOUNT_CONFLICT"

	// KindProfileCreationFailed: the account row exists but its role
	// profile (or company) insert failed. The store is left in an
	// inconsistent state pending manual repair; there is no rollback.
	KindProfileCreationFailed Kind = "PROFILE_CREATION_FAILED"

	// KindAlreadyExists: explicit registration hit an existing account
	// or credential for the same email.
	KindAlreadyExists Kind = "ALREADY_EXISTS"

	// KindUpstreamTimeout: the identity authority or the store did not
	// answer within the request deadline. No partial redirect is issued.
	KindUpstreamTimeout Kind = "UPSTREAM_TIMEOUT"

	// KindInvariantViolation: a role value outside the defined enum was
	// observed. Fatal; indicates upstream data corruption.
	KindInvariantViolation Kind = "INVARIANT_VIOLATION"
)

// Error is the typed result every resolution operation fails with.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "resolve_via_code"
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: [%s] %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: [%s]", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from err, or "" when err is not
// a resolution error.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// storeErr classifies an unexpected collaborator failure: context
// deadline expiry becomes an upstream timeout, anything else keeps
// the given default kind.
func storeErr(op string, kind Kind, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindUpstreamTimeout, Op: op, Err: err}
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
