package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/futurgenie/internal/invites/service"
	"github.com/aussiebroadwan/futurgenie/pkg/httpx"
	"github.com/aussiebroadwan/futurgenie/pkg/invitesdk"
	"github.com/aussiebroadwan/futurgenie/pkg/slogx"
)

// writeServiceError maps a service error to its HTTP response. Unknown
// errors are logged and hidden behind a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, invitesdk.ErrorCodeUnauthorized, "authentication required")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, invitesdk.ErrorCodeForbidden, "not allowed for this account")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, invitesdk.ErrorCodeNotFound, "not found")
	case errors.Is(err, service.ErrClassroomNameTaken):
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            invitesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "request validation failed",
			Fields:           map[string]string{"name": "a classroom with this name already exists"},
		})
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, invitesdk.ErrorCodeInvalidRequest, invalidInputDesc(err))
	case errors.Is(err, service.ErrExpired):
		httpx.WriteError(w, http.StatusGone, invitesdk.ErrorCodeExpired, err.Error())
	case errors.Is(err, service.ErrAlreadyUsed):
		httpx.WriteError(w, http.StatusConflict, invitesdk.ErrorCodeAlreadyUsed, err.Error())
	case errors.Is(err, service.ErrAccountConflict):
		httpx.WriteError(w, http.StatusConflict, invitesdk.ErrorCodeAccountConflict, err.Error())
	case errors.Is(err, service.ErrAlreadyOnboarded):
		httpx.WriteError(w, http.StatusConflict, invitesdk.ErrorCodeAlreadyOnboarded, err.Error())
	case errors.Is(err, service.ErrRoleMismatch):
		httpx.WriteError(w, http.StatusUnprocessableEntity, invitesdk.ErrorCodeRoleMismatch, err.Error())
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, invitesdk.ErrorCodeServerError, "internal server error")
	}
}

// invalidInputDesc strips the sentinel prefix from "invalid input: detail".
func invalidInputDesc(err error) string {
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, service.ErrInvalidInput.Error()+": "); ok {
		return detail
	}
	return msg
}
