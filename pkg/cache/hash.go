package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
//
// Besides cache key derivation this is used for content fingerprints,
// e.g. the requirements-file hash stored in mapping config provenance.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key builds a namespaced cache key: "prefix:hash(part)".
// Hashing keeps keys filesystem- and redis-safe regardless of input.
func Key(prefix, part string) string {
	return prefix + ":" + Hash([]byte(part))
}
