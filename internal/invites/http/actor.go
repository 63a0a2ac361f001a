package http

import (
	"net/http"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
	"github.com/aussiebroadwan/futurgenie/internal/invites/service"
	"github.com/aussiebroadwan/futurgenie/pkg/httpx"
)

// resolveActor turns the verified session on the request into an Actor.
func resolveActor(r *http.Request, ids *service.IdentityService) (domain.Actor, error) {
	subject, _ := httpx.SubjectFromContext(r.Context())
	return ids.ResolveActor(r.Context(), subject)
}

// resolveDirector is resolveActor for director-only routes. Non-directors
// are refused before the request body is read.
func resolveDirector(r *http.Request, ids *service.IdentityService) (domain.Actor, error) {
	actor, err := resolveActor(r, ids)
	if err != nil {
		return domain.Actor{}, err
	}
	if !actor.Director() {
		return domain.Actor{}, service.ErrForbidden
	}
	return actor, nil
}
