package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns a string of exactly n characters drawn uniformly
// from a fixed alphanumeric alphabet, sourced from crypto/rand.
//
// An unavailable random source is an error, never a weak fallback: every
// caller in this package treats it as fatal for the attempt.
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid length %d", n)
	}

	// Rejection sampling keeps the distribution uniform: bytes at or above
	// the largest multiple of len(alphabet) are discarded.
	limit := byte(256 - 256%len(alphabet))

	out := make([]byte, 0, n)
	buf := make([]byte, n)

	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("secure random source unavailable: %w", err)
		}

		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}

// CodeChallenge derives the S256 code challenge for a PKCE verifier:
// the SHA-256 digest of the verifier bytes, base64url-encoded with padding
// stripped (RFC 7636 §4.2).
func CodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
