package domain

import (
	"errors"
	"strings"
)

// Role is a school role. The zero value means "no role".
type Role string

const (
	RoleDirector Role = "DIRECTOR"
	RoleTeacher  Role = "TEACHER"
	RoleParent   Role = "PARENT"
)

var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole accepts any casing and returns the canonical role.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleDirector, RoleTeacher, RoleParent:
		return r, nil
	default:
		return "", ErrUnknownRole
	}
}

// Invitable reports whether an invitation may target r.
func (r Role) Invitable() bool {
	switch r {
	case RoleTeacher, RoleParent:
		return true
	case RoleDirector:
		return false
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }
