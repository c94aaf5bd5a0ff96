package hashing

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the sha256 hex digest of the submitted content bytes.
// It is the audit fingerprint stored alongside every moderation request.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
