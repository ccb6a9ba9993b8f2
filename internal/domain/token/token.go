// Package token mints and verifies the opaque client access tokens that
// gate the portal decision endpoint. Tokens are 32 random bytes, presented
// as URL-safe base64; only the SHA-256 hex of the plaintext is ever stored.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"time"
)

const rawLen = 32

// Mint returns a fresh plaintext token and its storable hash.
func Mint() (plaintext, hash string, err error) {
	buf := make([]byte, rawLen)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	plaintext = base64.RawURLEncoding.EncodeToString(buf)
	return plaintext, Hash(plaintext), nil
}

// Hash is the one-way form kept in storage and used for lookups.
func Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Matches compares a presented plaintext against a stored hash in constant
// time.
func Matches(plaintext, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(Hash(plaintext)), []byte(storedHash)) == 1
}

// Expired reports whether the token expiry has passed. A zero expiry counts
// as expired: tokens are only valid when minted with a deadline.
func Expired(expiresAt, now time.Time) bool {
	return expiresAt.IsZero() || now.After(expiresAt)
}
