package domain

// Actor is the verified caller of an operation, resolved per request.
type Actor struct {
	Subject  string
	Role     Role
	SchoolID string
}

func (a Actor) Authenticated() bool { return a.Subject != "" }

// Director reports whether the actor may manage a school.
func (a Actor) Director() bool {
	switch a.Role {
	case RoleDirector:
		return a.SchoolID != ""
	case RoleTeacher, RoleParent:
		return false
	default:
		return false
	}
}
