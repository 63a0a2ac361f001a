package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Verifier validates a session JWT and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions are the expectations shared by every verifier.
type VerifyOptions struct {
	// Issuer the token must have. Empty means "don't care".
	Issuer string

	// Audience values, at least one must be present. Empty means "don't care".
	Audience []string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration

	// Now is the clock, defaults to time.Now.
	Now func() time.Time
}

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrUnknownKID   = errors.New("jwtx: unknown kid")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Supported algorithms.
const (
	AlgHS256 = "HS256"
	AlgEdDSA = "EdDSA"
)

// NormaliseAlgorithm maps user input to a supported algorithm name.
func NormaliseAlgorithm(alg string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(alg)) {
	case "", "HS256":
		return AlgHS256, nil
	case "EDDSA", "ED25519":
		return AlgEdDSA, nil
	default:
		return "", fmt.Errorf("jwtx: unsupported algorithm %q", alg)
	}
}

func (o VerifyOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// validate runs the claim checks every verifier shares once the signature
// has been accepted.
func (o VerifyOptions) validate(c *Claims) error {
	if err := c.ValidateSubject(); err != nil {
		return err
	}
	if err := c.ValidateIssuer(o.Issuer); err != nil {
		return err
	}
	if err := c.ValidateAudience(o.Audience); err != nil {
		return err
	}
	return c.ValidateExpiryWithLeeway(o.now(), o.Leeway)
}
