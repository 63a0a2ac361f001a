package domain

import "time"

// Profile is our view of an identity-provider account. ID is the provider's
// subject id.
type Profile struct {
	ID          string
	Role        Role
	SchoolID    string // empty until the account belongs to a school
	DisplayName string
	CreatedAt   time.Time
}

// ClassroomMember attaches a profile to a classroom.
type ClassroomMember struct {
	ClassroomID string
	UserID      string
	Role        Role
	JoinedAt    time.Time
}
