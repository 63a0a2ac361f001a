package invitesdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes carried in the "error" field of failure responses.
const (
	ErrorCodeUnauthorized     = "unauthorized"
	ErrorCodeForbidden        = "forbidden"
	ErrorCodeNotFound         = "not_found"
	ErrorCodeInvalidRequest   = "invalid_request"
	ErrorCodeExpired          = "expired"
	ErrorCodeAlreadyUsed      = "already_used"
	ErrorCodeRoleMismatch     = "role_mismatch"
	ErrorCodeAccountConflict  = "account_conflict"
	ErrorCodeAlreadyOnboarded = "already_onboarded"
	ErrorCodeRateLimited      = "rate_limit_exceeded"
	ErrorCodeServerError      = "server_error"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode  int               `json:"-"`
	Code        string            `json:"error"`
	Description string            `json:"error_description,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("invitesdk: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("invitesdk: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse builds an *APIError from a failed response body. Bodies
// that are not our JSON error shape (proxies, panics) keep the raw text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err == nil && apiErr.Code != "" {
		return apiErr
	}

	apiErr.Code = strings.ToLower(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_"))
	apiErr.Description = strings.TrimSpace(string(body))
	return apiErr
}
