package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks an admin credential. Pluggable so the shared-secret gate
// can be replaced by per-user credentials without touching the handlers.
type Verifier interface {
	Verify(password string) bool
}

// SharedSecret verifies against a single configured secret. When the
// configured value is a bcrypt hash it is compared as one; otherwise a
// constant-time plain comparison is used.
type SharedSecret struct {
	secret   string
	isBcrypt bool
}

func NewSharedSecret(secret string) *SharedSecret {
	return &SharedSecret{
		secret:   secret,
		isBcrypt: strings.HasPrefix(secret, "$2a$") || strings.HasPrefix(secret, "$2b$") || strings.HasPrefix(secret, "$2y$"),
	}
}

func (s *SharedSecret) Verify(password string) bool {
	if s.secret == "" {
		return false
	}
	if s.isBcrypt {
		return bcrypt.CompareHashAndPassword([]byte(s.secret), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.secret), []byte(password)) == 1
}
