package invitesdk

import "time"

// ============================================================================
// Invitations
// ============================================================================

// IssueRequest asks for an invitation link to a classroom.
type IssueRequest struct {
	// ClassroomID is the target classroom, which must belong to the caller's school.
	ClassroomID string `json:"classroom_id" validate:"required,notblank,max=64"`

	// IntendedRole is TEACHER or PARENT (case-insensitive).
	IntendedRole string `json:"intended_role" validate:"required,notblank,max=16"`
}

// Invitation is an issued invitation. Secret is the bearer credential.
type Invitation struct {
	ID           string    `json:"id"`
	Secret       string    `json:"secret,omitempty"`
	ClassroomID  string    `json:"classroom_id"`
	IntendedRole string    `json:"intended_role"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`

	// InviteURL is the shareable link, empty when the service has no public base URL.
	InviteURL string `json:"invite_url,omitempty"`

	// Reused is set by issue when an existing valid invitation was returned.
	Reused bool `json:"reused,omitempty"`

	// Expired is set by list for invitations past expires_at.
	Expired bool `json:"expired,omitempty"`
}

// InvitationList is the list response for a classroom.
type InvitationList struct {
	Invitations []Invitation `json:"invitations"`
}

// RedeemRequest consumes an invitation.
type RedeemRequest struct {
	Secret        string `json:"secret" validate:"required,notblank,max=256"`
	RequestedRole string `json:"requested_role" validate:"required,notblank,max=16"`

	// AccountID is the identity-provider user id to attach. Ignored when the
	// request carries a valid session.
	AccountID   string `json:"account_id,omitempty" validate:"omitempty,max=128"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=100"`
}

// RedeemResponse is where the redeemed invitation placed the account.
type RedeemResponse struct {
	TokenID     string    `json:"token_id"`
	ClassroomID string    `json:"classroom_id"`
	SchoolID    string    `json:"school_id"`
	SchoolName  string    `json:"school_name"`
	Role        string    `json:"role"`
	UserID      string    `json:"user_id"`
	RedeemedAt  time.Time `json:"redeemed_at"`
}

// ============================================================================
// Schools and classrooms
// ============================================================================

// OnboardRequest founds a school with the caller as its director.
type OnboardRequest struct {
	SchoolName  string `json:"school_name" validate:"required,notblank,max=200"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=100"`
}

// OnboardResponse describes the new school and director.
type OnboardResponse struct {
	SchoolID   string    `json:"school_id"`
	SchoolName string    `json:"school_name"`
	UserID     string    `json:"user_id"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// ClassroomRequest creates a classroom in the caller's school.
type ClassroomRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=100"`
	Grade string `json:"grade,omitempty" validate:"omitempty,max=20"`
}

// Classroom is a classroom of the caller's school.
type Classroom struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"school_id"`
	Name      string    `json:"name"`
	Grade     string    `json:"grade,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ClassroomList is the list response for the caller's school.
type ClassroomList struct {
	Classrooms []Classroom `json:"classrooms"`
}

// Member is an account attached to a classroom through an invitation.
type Member struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// MemberList is the roster of one classroom, oldest member first.
type MemberList struct {
	ClassroomID string   `json:"classroom_id"`
	Teachers    int      `json:"teachers"`
	Parents     int      `json:"parents"`
	Members     []Member `json:"members"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz. Checks is only set by /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of the service's dependencies.
type HealthChecks struct {
	// Database is "ok" or the ping error.
	Database string `json:"database"`

	// Verifier is "ok" when session tokens can be verified.
	Verifier string `json:"verifier"`
}
