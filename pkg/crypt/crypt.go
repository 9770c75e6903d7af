// Package crypt provides the token primitives behind password recovery.
//
// A reset token exists in two forms: the raw value mailed to the user and the
// SHA-256 digest persisted on the User document. Only the digest is ever
// stored, so a database leak does not expose live reset links.
//
//	raw, digest, err := crypt.ResetToken()
//	// mail raw, persist digest; later:
//	crypt.Hash(presented) == storedDigest
package crypt

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// RandomToken returns a cryptographically random hex string of 2n characters.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypt: random token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Hash returns the SHA-256 hex digest of the input.
func Hash(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// ResetToken generates a raw password-reset token and its storable digest.
func ResetToken() (raw, digest string, err error) {
	raw, err = RandomToken(20)
	if err != nil {
		return "", "", err
	}
	return raw, Hash(raw), nil
}
