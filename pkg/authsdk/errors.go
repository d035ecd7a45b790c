package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// Error Codes
// ============================================================================

// Error codes carried in ErrorResponse.Error. They are stable; clients
// should branch on them rather than on descriptions.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeValidation         = "validation_failed"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeTokenExpired       = "token_expired"
	ErrorCodePasswordChanged    = "password_changed"
	ErrorCodeAccountInactive    = "account_inactive"
	ErrorCodeEmailNotVerified   = "email_not_verified"
	ErrorCodeAlreadyVerified    = "email_already_verified"
	ErrorCodeInvalidOrExpired   = "invalid_or_expired_token"
	ErrorCodeConflict           = "conflict"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeInsufficientTier   = "insufficient_tier"
	ErrorCodeGoogleDisabled     = "google_auth_disabled"
	ErrorCodeAlreadyProcessed   = "already_processed"
	ErrorCodeInviteExpired      = "invite_expired"
	ErrorCodeSeatLimitReached   = "seat_limit_reached"
	ErrorCodePlanNotEligible    = "plan_not_eligible"
	ErrorCodeNoSubscription     = "no_subscription"
	ErrorCodeAlreadyMember      = "already_member"
	ErrorCodeAlreadyOnTeam      = "already_on_team"
	ErrorCodeDuplicatePending   = "duplicate_pending_invite"
	ErrorCodeRateLimited        = "rate_limit_exceeded"
	ErrorCodeServerError        = "server_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error            string            `json:"error" example:"invalid_request"`
	ErrorDescription string            `json:"error_description"`
	Fields           map[string]string `json:"fields,omitempty"`
	Warnings         []string          `json:"warnings,omitempty"`
}

// ============================================================================
// APIError
// ============================================================================

// APIError is a failed call as seen by the client. The server builds the
// same type to render its responses.
type APIError struct {
	StatusCode  int               `json:"-"`
	Code        string            `json:"error"`
	Description string            `json:"error_description"`
	Fields      map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches another APIError by code, so errors.Is(err, authsdk.ErrNotFound)
// holds for any not_found response.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Description: description}
}

// Sentinels for errors.Is against client results.
var (
	ErrInvalidCredentials = &APIError{StatusCode: http.StatusUnauthorized, Code: ErrorCodeInvalidCredentials}
	ErrInvalidToken       = &APIError{StatusCode: http.StatusUnauthorized, Code: ErrorCodeInvalidToken}
	ErrEmailNotVerified   = &APIError{StatusCode: http.StatusForbidden, Code: ErrorCodeEmailNotVerified}
	ErrConflict           = &APIError{StatusCode: http.StatusConflict, Code: ErrorCodeConflict}
	ErrNotFound           = &APIError{StatusCode: http.StatusNotFound, Code: ErrorCodeNotFound}
	ErrForbidden          = &APIError{StatusCode: http.StatusForbidden, Code: ErrorCodeForbidden}
	ErrAlreadyProcessed   = &APIError{StatusCode: http.StatusConflict, Code: ErrorCodeAlreadyProcessed}
	ErrInviteExpired      = &APIError{StatusCode: http.StatusGone, Code: ErrorCodeInviteExpired}
	ErrSeatLimitReached   = &APIError{StatusCode: http.StatusForbidden, Code: ErrorCodeSeatLimitReached}
	ErrDuplicatePending   = &APIError{StatusCode: http.StatusConflict, Code: ErrorCodeDuplicatePending}
	ErrValidation         = &APIError{StatusCode: http.StatusBadRequest, Code: ErrorCodeValidation}
)

// StatusCode extracts the HTTP status of an APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
			Fields:      errResp.Fields,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
