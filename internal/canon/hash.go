package canon

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest computes the lowercase-hex SHA-256 of a value's canonical bytes.
// This is the content address used for design-state node identity and
// contract fingerprinting. Stable across processes for equal records.
func Digest(v any) string {
	return DigestBytes(MarshalCanonical(v))
}

// DigestBytes computes the lowercase-hex SHA-256 of raw bytes. Used where
// the payload is already canonical (e.g. variant-node minting, which
// hashes the "inputsDigest:outputsDigest" concatenation verbatim).
func DigestBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// DigestString is DigestBytes over a string payload.
func DigestString(s string) string {
	return DigestBytes([]byte(s))
}
