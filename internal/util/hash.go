package util

import (
	"crypto/sha256"
	"encoding/base64"
)

// Sha256Base64URL hashes a secret for storage; only the hash ever hits the
// database.
func Sha256Base64URL(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
