package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the lifetime of locally minted development sessions.
const DefaultSessionTTL = time.Hour

// Claims are the session claims issued by the identity provider. Only the
// subject is trusted for authorization, the school role lives in our own
// profile table.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the account, informational only.
	Email string `json:"email,omitempty"`

	// Role is the provider's own role claim (e.g. "authenticated"). It is
	// NOT the school role.
	Role string `json:"role,omitempty"`

	// SessionID lets log lines from the same login be correlated.
	SessionID string `json:"session_id,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for a subject.
func NewSessionClaims(subject, email string, ttl time.Duration, issuer string, audience []string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Email:     email,
		Role:      "authenticated",
		SessionID: NewJTI(),
	}
}

// NewJTI returns a random URL-safe identifier.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer when one is expected.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks that at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateSubject rejects tokens without a subject, we have nobody to
// resolve them to.
func (c *Claims) ValidateSubject() error {
	if c.Subject == "" {
		return ErrInvalidClaim
	}
	return nil
}

// ValidateExpiryWithLeeway checks exp and nbf, allowing leeway for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
