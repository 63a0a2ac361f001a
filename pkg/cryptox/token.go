package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// Token sizes in bytes, before encoding.
const (
	// TokenSize128 provides 128 bits of entropy (22 chars base64url). This is
	// the floor for anything used as a bearer credential.
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (43 chars base64url).
	TokenSize256 = 32
)

// GenerateToken returns size bytes from crypto/rand encoded as unpadded
// base64url, so the result is safe to drop into a URL path.
func GenerateToken(size int) (string, error) {
	if size < TokenSize128 {
		return "", fmt.Errorf("cryptox: token size must be at least %d bytes, got %d", TokenSize128, size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns the base64url SHA-256 of token (43 chars). Rows
// store the fingerprint so a bearer secret can be looked up without keeping
// it in plaintext.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// EqualTokens compares two secrets in constant time.
func EqualTokens(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
