package domain

import "time"

// TokenState is the lifecycle position of an invitation token. Revoked
// tokens are deleted and have no state.
type TokenState string

const (
	TokenIssued   TokenState = "ISSUED"
	TokenRedeemed TokenState = "REDEEMED"
	TokenExpired  TokenState = "EXPIRED"
)

// InvitationToken lets one account join ClassroomID as IntendedRole.
//
// The secret itself is never stored. SecretHash is its lookup fingerprint
// and SecretSealed the encrypted copy used to show active links again.
type InvitationToken struct {
	ID           string
	SecretHash   string
	SecretSealed string
	SchoolID     string
	ClassroomID  string
	IntendedRole Role
	CreatedBy    string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	UsedAt       *time.Time
	UsedBy       string
}

func (t InvitationToken) Used() bool { return t.UsedAt != nil }

// Expired is derived from the clock, it is never stored.
func (t InvitationToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }

// State reports the lifecycle state at now. Redemption wins over expiry.
func (t InvitationToken) State(now time.Time) TokenState {
	switch {
	case t.Used():
		return TokenRedeemed
	case t.Expired(now):
		return TokenExpired
	default:
		return TokenIssued
	}
}
