// Package cryptox checks the shared secret that authorizes destructive
// operations.
package cryptox

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// IsBcryptHash reports whether s looks like a bcrypt hash rather than a
// plain secret.
func IsBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// CheckSecret reports whether candidate matches configured. A configured
// value in bcrypt form is verified with bcrypt; anything else is compared in
// constant time. An empty configured secret never matches.
func CheckSecret(candidate, configured string) bool {
	if configured == "" {
		return false
	}
	if IsBcryptHash(configured) {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(configured)) == 1
}

// HashSecret produces a bcrypt hash suitable for the delete-password setting.
func HashSecret(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
