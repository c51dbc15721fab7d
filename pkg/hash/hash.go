package hash

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// ShortHex returns the first n characters of SHA256(input). Used for
// privacy-preserving user-agent and IP hashes in logs and analytics.
func ShortHex(input string, n int) string {
	full := SHA256Hex(input)
	if n > len(full) {
		return full
	}
	return full[:n]
}

// NewSessionID generates a random anonymous session identifier for
// analytics rows. Not a security token.
func NewSessionID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "sess_0000000000000000"
	}
	return "sess_" + hex.EncodeToString(b[:])
}
