package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RandomString returns a URL-safe base64 string built from n random
// bytes. Used for session IDs, OAuth state and PKCE verifiers.
func RandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("utils: failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
