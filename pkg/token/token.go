// Package token generates opaque random tokens for cookie correlation.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// defaultBytes is the entropy of a token before encoding. 32 bytes keeps
// guessing infeasible even for long-lived tokens.
const defaultBytes = 32

// New creates a cryptographically secure random token encoded as URL-safe
// base64. The token carries 256 bits of entropy.
func New() (string, error) {
	b := make([]byte, defaultBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// MustNew creates a token and panics if the system's entropy source fails.
// Use in contexts where a failed read is unrecoverable anyway.
func MustNew() string {
	t, err := New()
	if err != nil {
		panic(err)
	}
	return t
}
