package identity

// Principal represents an authenticated identity obtained from an
// external identity authority for a single exchange. It contains
// facts only, no decisions, and is never persisted.
type Principal struct {
	ID            string            // authority-scoped unique user identifier (sub)
	Email         string            // verified email returned by the authority
	DisplayName   string            // full display name, may be empty
	EmailVerified bool              // whether the authority asserts email ownership
	Claims        map[string]string // remaining profile claims, keyed by claim name
}

// Claim returns the named claim or the empty string.
func (p *Principal) Claim(name string) string {
	if p == nil || p.Claims == nil {
		return ""
	}
	return p.Claims[name]
}
