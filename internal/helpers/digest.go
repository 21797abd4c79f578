package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// shortLen is the number of hex characters kept by the short digests.
const shortLen = 8

// Digest returns the hex-encoded SHA256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DigestReader hashes everything read from r.
func DigestReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ShortDigest is the first characters of Digest, used in source URLs.
func ShortDigest(data []byte) string {
	return Digest(data)[:shortLen]
}

// ShortID is ShortDigest for a string, used to tag log lines for one
// piece of inline source.
func ShortID(input string) string {
	return ShortDigest([]byte(input))
}
