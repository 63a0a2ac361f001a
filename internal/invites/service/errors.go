package service

import "errors"

// Errors returned by the services. Handlers map them to HTTP statuses with
// errors.Is; anything else is an internal failure.
var (
	ErrUnauthorized     = errors.New("caller is not authenticated")
	ErrForbidden        = errors.New("caller may not perform this action")
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrExpired          = errors.New("invitation has expired")
	ErrAlreadyUsed      = errors.New("invitation has already been used")
	ErrRoleMismatch     = errors.New("requested role does not match the invitation")
	ErrAccountConflict  = errors.New("account cannot join this classroom")
	ErrAlreadyOnboarded = errors.New("account already belongs to a school")
)
