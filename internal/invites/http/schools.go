package http

import (
	"net/http"

	"github.com/aussiebroadwan/futurgenie/internal/invites/service"
	"github.com/aussiebroadwan/futurgenie/pkg/httpx"
	"github.com/aussiebroadwan/futurgenie/pkg/invitesdk"
)

// SchoolsHandler serves school onboarding and the classroom endpoints.
type SchoolsHandler struct {
	IdentityService   *service.IdentityService
	OnboardingService *service.OnboardingService
	ClassroomService  *service.ClassroomService
}

// HandleOnboard godoc
//
//	@Summary		Onboard School
//	@Description	Create a school with the caller as its director. When the service is gated the X-Onboarding-Token header must match.
//	@Tags			Schools
//	@Accept			json
//	@Produce		json
//	@Param			X-Onboarding-Token	header		string						false	"Onboarding token"
//	@Param			request				body		invitesdk.OnboardRequest	true	"School"
//	@Success		201					{object}	invitesdk.OnboardResponse	"school and director"
//	@Failure		400					{object}	httpx.ErrorResponse			"invalid_request"
//	@Failure		401					{object}	httpx.ErrorResponse			"unauthorized"
//	@Failure		403					{object}	httpx.ErrorResponse			"forbidden"
//	@Failure		409					{object}	httpx.ErrorResponse			"already_onboarded"
//	@Security		BearerAuth
//	@Router			/v1/onboarding/school [post].
func (h *SchoolsHandler) HandleOnboard(w http.ResponseWriter, r *http.Request) {
	var req invitesdk.OnboardRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	subject, _ := httpx.SubjectFromContext(r.Context())
	res, err := h.OnboardingService.OnboardSchool(
		r.Context(),
		subject,
		r.Header.Get(invitesdk.OnboardingTokenHeader),
		service.OnboardRequest{SchoolName: req.SchoolName, DisplayName: req.DisplayName},
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, invitesdk.OnboardResponse{
		SchoolID:   res.School.ID,
		SchoolName: res.School.Name,
		UserID:     res.Profile.ID,
		Role:       res.Profile.Role.String(),
		CreatedAt:  res.School.CreatedAt,
	})
}

// HandleCreateClassroom godoc
//
//	@Summary		Create Classroom
//	@Description	Add a classroom to the director's school. Names are unique per school.
//	@Tags			Schools
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.ClassroomRequest	true	"Classroom"
//	@Success		201		{object}	invitesdk.Classroom			"classroom"
//	@Failure		400		{object}	httpx.ErrorResponse			"invalid_request"
//	@Failure		401		{object}	httpx.ErrorResponse			"unauthorized"
//	@Failure		403		{object}	httpx.ErrorResponse			"forbidden"
//	@Security		BearerAuth
//	@Router			/v1/classrooms [post].
func (h *SchoolsHandler) HandleCreateClassroom(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveDirector(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req invitesdk.ClassroomRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	c, err := h.ClassroomService.CreateClassroom(r.Context(), actor, req.Name, req.Grade)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, invitesdk.Classroom{
		ID:        c.ID,
		SchoolID:  c.SchoolID,
		Name:      c.Name,
		Grade:     c.Grade,
		CreatedAt: c.CreatedAt,
	})
}

// HandleListClassrooms godoc
//
//	@Summary		List Classrooms
//	@Description	List the classrooms of the director's school by name.
//	@Tags			Schools
//	@Produce		json
//	@Success		200	{object}	invitesdk.ClassroomList	"classrooms"
//	@Failure		401	{object}	httpx.ErrorResponse		"unauthorized"
//	@Failure		403	{object}	httpx.ErrorResponse		"forbidden"
//	@Security		BearerAuth
//	@Router			/v1/classrooms [get].
func (h *SchoolsHandler) HandleListClassrooms(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	list, err := h.ClassroomService.ListClassrooms(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := invitesdk.ClassroomList{Classrooms: make([]invitesdk.Classroom, 0, len(list))}
	for _, c := range list {
		out.Classrooms = append(out.Classrooms, invitesdk.Classroom{
			ID:        c.ID,
			SchoolID:  c.SchoolID,
			Name:      c.Name,
			Grade:     c.Grade,
			CreatedAt: c.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleListMembers godoc
//
//	@Summary		List Classroom Members
//	@Description	List the accounts that joined a classroom of the director's school, oldest first, with teacher and parent counts.
//	@Tags			Schools
//	@Produce		json
//	@Param			classroom_id	path		string					true	"Classroom ID"
//	@Success		200				{object}	invitesdk.MemberList	"members"
//	@Failure		401				{object}	httpx.ErrorResponse		"unauthorized"
//	@Failure		403				{object}	httpx.ErrorResponse		"forbidden"
//	@Failure		404				{object}	httpx.ErrorResponse		"not_found"
//	@Security		BearerAuth
//	@Router			/v1/classrooms/{classroom_id}/members [get].
func (h *SchoolsHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	roster, err := h.ClassroomService.ListMembers(r.Context(), actor, r.PathValue("classroom_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := invitesdk.MemberList{
		ClassroomID: roster.ClassroomID,
		Teachers:    roster.Teachers,
		Parents:     roster.Parents,
		Members:     make([]invitesdk.Member, 0, len(roster.Members)),
	}
	for _, m := range roster.Members {
		out.Members = append(out.Members, invitesdk.Member{
			UserID:   m.UserID,
			Role:     m.Role.String(),
			JoinedAt: m.JoinedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
