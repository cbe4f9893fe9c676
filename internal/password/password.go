// Package password wraps bcrypt hashing and verification of user passwords.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor applied to every new hash. It is a fixed
// tunable, never derived from input.
const Cost = 12

// Hash derives a salted bcrypt hash from the plaintext. Each call produces
// a distinct hash for the same input because bcrypt embeds a fresh salt.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plaintext matches the stored hash. It returns
// false both on mismatch and when the stored value is not a valid bcrypt
// hash; it never panics.
func Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
