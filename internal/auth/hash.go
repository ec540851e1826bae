package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserID returns the SHA-256 hex digest of a raw user identifier.
// The digest is the only form ever persisted; lookups key on it, so the
// hash must stay deterministic and unsalted.
func HashUserID(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}

// HashIP returns the SHA-256 hex digest of a client IP
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}
