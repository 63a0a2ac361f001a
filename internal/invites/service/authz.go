package service

import (
	"time"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
)

// requireDirector is the single capability check for school management.
func requireDirector(actor domain.Actor) error {
	if !actor.Authenticated() {
		return ErrUnauthorized
	}

	switch actor.Role {
	case domain.RoleDirector:
		if actor.SchoolID == "" {
			return ErrForbidden
		}
		return nil
	case domain.RoleTeacher, domain.RoleParent:
		return ErrForbidden
	default:
		return ErrForbidden
	}
}

// clock returns now in UTC at millisecond precision, which is what the
// store keeps.
func clock(now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}
	return now().UTC().Truncate(time.Millisecond)
}
