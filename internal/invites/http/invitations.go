package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/futurgenie/internal/invites/service"
	"github.com/aussiebroadwan/futurgenie/pkg/httpx"
	"github.com/aussiebroadwan/futurgenie/pkg/invitesdk"
)

// InvitationsHandler serves issuing, listing, revoking and redeeming invitations.
type InvitationsHandler struct {
	IdentityService   *service.IdentityService
	InvitationService *service.InvitationService

	// PublicBaseURL prefixes the secret to build invite_url. Empty omits it.
	PublicBaseURL string
}

// HandleIssue godoc
//
//	@Summary		Issue Invitation
//	@Description	Return a valid invitation link for a classroom and role. An existing valid invitation for the same classroom and role is returned as is (200); otherwise a new one is created (201).
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.IssueRequest	true	"Classroom and intended role"
//	@Success		201		{object}	invitesdk.Invitation	"new invitation"
//	@Success		200		{object}	invitesdk.Invitation	"reused invitation"
//	@Failure		400		{object}	httpx.ErrorResponse		"invalid_request"
//	@Failure		401		{object}	httpx.ErrorResponse		"unauthorized"
//	@Failure		403		{object}	httpx.ErrorResponse		"forbidden"
//	@Failure		404		{object}	httpx.ErrorResponse		"not_found"
//	@Security		BearerAuth
//	@Router			/v1/invitations [post].
func (h *InvitationsHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveDirector(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req invitesdk.IssueRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	tok, err := h.InvitationService.IssueToken(r.Context(), actor, req.ClassroomID, req.IntendedRole)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status := http.StatusCreated
	if tok.Reused {
		status = http.StatusOK
	}
	httpx.WriteJSON(w, status, invitesdk.Invitation{
		ID:           tok.ID,
		Secret:       tok.Secret,
		ClassroomID:  tok.ClassroomID,
		IntendedRole: tok.IntendedRole.String(),
		CreatedAt:    tok.CreatedAt,
		ExpiresAt:    tok.ExpiresAt,
		InviteURL:    h.inviteURL(tok.Secret),
		Reused:       tok.Reused,
	})
}

// HandleList godoc
//
//	@Summary		List Invitations
//	@Description	List the unused invitations of a classroom, newest first. Expired invitations are included with expired=true.
//	@Tags			Invitations
//	@Produce		json
//	@Param			classroom_id	path		string						true	"Classroom ID"
//	@Success		200				{object}	invitesdk.InvitationList	"invitations"
//	@Failure		401				{object}	httpx.ErrorResponse			"unauthorized"
//	@Failure		403				{object}	httpx.ErrorResponse			"forbidden"
//	@Failure		404				{object}	httpx.ErrorResponse			"not_found"
//	@Security		BearerAuth
//	@Router			/v1/classrooms/{classroom_id}/invitations [get].
func (h *InvitationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	tokens, err := h.InvitationService.ListActiveTokens(r.Context(), actor, r.PathValue("classroom_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := invitesdk.InvitationList{Invitations: make([]invitesdk.Invitation, 0, len(tokens))}
	for _, t := range tokens {
		out.Invitations = append(out.Invitations, invitesdk.Invitation{
			ID:           t.ID,
			Secret:       t.Secret,
			ClassroomID:  t.ClassroomID,
			IntendedRole: t.IntendedRole.String(),
			CreatedBy:    t.CreatedBy,
			CreatedAt:    t.CreatedAt,
			ExpiresAt:    t.ExpiresAt,
			InviteURL:    h.inviteURL(t.Secret),
			Expired:      t.Expired,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRevoke godoc
//
//	@Summary		Revoke Invitation
//	@Description	Delete an invitation of the caller's school, whatever its state.
//	@Tags			Invitations
//	@Param			id	path	string	true	"Invitation ID"
//	@Success		204	"revoked"
//	@Failure		401	{object}	httpx.ErrorResponse	"unauthorized"
//	@Failure		403	{object}	httpx.ErrorResponse	"forbidden"
//	@Failure		404	{object}	httpx.ErrorResponse	"not_found"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id} [delete].
func (h *InvitationsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.InvitationService.RevokeToken(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRedeem godoc
//
//	@Summary		Redeem Invitation
//	@Description	Consume an invitation and attach an account to its classroom. With a valid bearer session the session's account is attached and account_id is ignored. Without one, account_id may only name a new account.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.RedeemRequest		true	"Secret, requested role and account"
//	@Success		200		{object}	invitesdk.RedeemResponse	"placement"
//	@Failure		400		{object}	httpx.ErrorResponse			"invalid_request"
//	@Failure		404		{object}	httpx.ErrorResponse			"not_found"
//	@Failure		409		{object}	httpx.ErrorResponse			"already_used, account_conflict"
//	@Failure		410		{object}	httpx.ErrorResponse			"expired"
//	@Failure		422		{object}	httpx.ErrorResponse			"role_mismatch"
//	@Failure		429		{object}	httpx.ErrorResponse			"rate_limit_exceeded"
//	@Router			/v1/invitations/redeem [post].
func (h *InvitationsHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	var req invitesdk.RedeemRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	claim := service.AccountClaim{Subject: req.AccountID, DisplayName: req.DisplayName}
	if sub, ok := httpx.SubjectFromContext(r.Context()); ok {
		claim.Subject = sub
		claim.Verified = true
	}
	if strings.TrimSpace(claim.Subject) == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            invitesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "request validation failed",
			Fields:           map[string]string{"account_id": "account_id is required without a session"},
		})
		return
	}

	res, err := h.InvitationService.RedeemToken(r.Context(), req.Secret, req.RequestedRole, claim)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.RedeemResponse{
		TokenID:     res.TokenID,
		ClassroomID: res.ClassroomID,
		SchoolID:    res.SchoolID,
		SchoolName:  res.SchoolName,
		Role:        res.Role.String(),
		UserID:      res.UserID,
		RedeemedAt:  res.RedeemedAt,
	})
}

func (h *InvitationsHandler) inviteURL(secret string) string {
	if h.PublicBaseURL == "" || secret == "" {
		return ""
	}
	return h.PublicBaseURL + url.PathEscape(secret)
}
