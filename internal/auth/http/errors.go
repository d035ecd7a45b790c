package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/pkg/authsdk"
	"github.com/aussiebroadwan/teamauth/pkg/httpx"
	"github.com/aussiebroadwan/teamauth/pkg/slogx"
)

type errorKind struct {
	err    error
	status int
	code   string
}

// errorKinds is matched in order, so wrapped errors carrying more than one
// kind resolve to the first listed.
var errorKinds = []errorKind{
	{service.ErrValidation, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidOrExpired, http.StatusBadRequest, authsdk.ErrorCodeInvalidOrExpired},
	{service.ErrAlreadyVerified, http.StatusBadRequest, authsdk.ErrorCodeAlreadyVerified},
	{service.ErrGoogleDisabled, http.StatusBadRequest, authsdk.ErrorCodeGoogleDisabled},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials},
	{service.ErrInvalidToken, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken},
	{service.ErrPasswordChanged, http.StatusUnauthorized, authsdk.ErrorCodePasswordChanged},
	{service.ErrInactive, http.StatusUnauthorized, authsdk.ErrorCodeAccountInactive},
	{service.ErrExpired, http.StatusUnauthorized, authsdk.ErrorCodeTokenExpired},

	{service.ErrEmailNotVerified, http.StatusForbidden, authsdk.ErrorCodeEmailNotVerified},
	{service.ErrForbidden, http.StatusForbidden, authsdk.ErrorCodeForbidden},
	{service.ErrPlanNotEligible, http.StatusForbidden, authsdk.ErrorCodePlanNotEligible},
	{service.ErrNoSubscription, http.StatusForbidden, authsdk.ErrorCodeNoSubscription},
	{service.ErrSeatLimitReached, http.StatusForbidden, authsdk.ErrorCodeSeatLimitReached},

	{service.ErrNotFound, http.StatusNotFound, authsdk.ErrorCodeNotFound},

	{service.ErrDuplicatePending, http.StatusConflict, authsdk.ErrorCodeDuplicatePending},
	{service.ErrAlreadyMember, http.StatusConflict, authsdk.ErrorCodeAlreadyMember},
	{service.ErrAlreadyOnTeam, http.StatusConflict, authsdk.ErrorCodeAlreadyOnTeam},
	{service.ErrAlreadyProcessed, http.StatusConflict, authsdk.ErrorCodeAlreadyProcessed},
	{service.ErrConflict, http.StatusConflict, authsdk.ErrorCodeConflict},
}

// inviteKinds puts lapsed invitations ahead of the generic table. An
// expired invite is also already processed, and outside invite routes
// ErrExpired means a lapsed token.
var inviteKinds = append([]errorKind{
	{service.ErrExpired, http.StatusGone, authsdk.ErrorCodeInviteExpired},
}, errorKinds...)

func writeAPIError(w http.ResponseWriter, e *authsdk.APIError) {
	httpx.WriteJSON(w, e.StatusCode, authsdk.ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
		Fields:           e.Fields,
	})
}

func classify(kinds []errorKind, err error) (*authsdk.APIError, bool) {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return authsdk.NewAPIError(k.status, k.code, describe(err)), true
		}
	}
	return nil, false
}

// describe strips the leading kind from a wrapped message, leaving the
// detail a client can show.
func describe(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func renderError(w http.ResponseWriter, r *http.Request, kinds []errorKind, err error) {
	if apiErr, ok := classify(kinds, err); ok {
		writeAPIError(w, apiErr)
		return
	}
	slogx.FromContext(r.Context()).Error("request failed", slog.Any("err", err))
	httpx.WriteError(w, http.StatusInternalServerError, authsdk.ErrorCodeServerError, "internal server error")
}

// writeServiceError renders a service failure.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	renderError(w, r, errorKinds, err)
}

// writeInviteError renders failures of the invitation routes.
func writeInviteError(w http.ResponseWriter, r *http.Request, err error) {
	renderError(w, r, inviteKinds, err)
}

func writeBadJSON(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "invalid JSON body")
}

// writeValidation renders ozzo validation failures field by field.
func writeValidation(w http.ResponseWriter, err error) {
	writeAPIError(w, &authsdk.APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        authsdk.ErrorCodeValidation,
		Description: "request validation failed",
		Fields:      authsdk.FieldErrors(err),
	})
}

type validatable interface {
	Validate() error
}

// decode reads and validates a request body, writing the error response
// itself when it fails.
func decode(w http.ResponseWriter, r *http.Request, req validatable) bool {
	if err := httpx.DecodeJSON(r, req); err != nil {
		writeBadJSON(w)
		return false
	}
	if err := req.Validate(); err != nil {
		writeValidation(w, err)
		return false
	}
	return true
}
