package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestErrorTable(t *testing.T) {
	t.Parallel()

	lapsed := fmt.Errorf("%w: invitation %w", service.ErrAlreadyProcessed, service.ErrExpired)

	tests := []struct {
		name   string
		kinds  []errorKind
		err    error
		status int
		code   string
	}{
		{"lapsed invite", inviteKinds, lapsed, http.StatusGone, authsdk.ErrorCodeInviteExpired},
		{"accepted invite", inviteKinds, fmt.Errorf("%w: invitation already accepted", service.ErrAlreadyProcessed), http.StatusConflict, authsdk.ErrorCodeAlreadyProcessed},
		{"expired token", errorKinds, service.ErrExpired, http.StatusUnauthorized, authsdk.ErrorCodeTokenExpired},
		{"seat limit", inviteKinds, fmt.Errorf("%w: 5 of 5 seats used", service.ErrSeatLimitReached), http.StatusForbidden, authsdk.ErrorCodeSeatLimitReached},
		{"duplicate", inviteKinds, service.ErrDuplicatePending, http.StatusConflict, authsdk.ErrorCodeDuplicatePending},
		{"not verified", errorKinds, service.ErrEmailNotVerified, http.StatusForbidden, authsdk.ErrorCodeEmailNotVerified},
		{"bad reset token", errorKinds, service.ErrInvalidOrExpired, http.StatusBadRequest, authsdk.ErrorCodeInvalidOrExpired},
		{"missing", errorKinds, service.ErrNotFound, http.StatusNotFound, authsdk.ErrorCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr, ok := classify(tt.kinds, tt.err)
			require.True(t, ok)
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestDescribeKeepsDetail(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: 5 of 5 seats used", service.ErrSeatLimitReached)
	require.Equal(t, "5 of 5 seats used", describe(err))
	require.Equal(t, "not_found", describe(service.ErrNotFound))
}

func TestUnknownErrorsRenderAsServerError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	writeServiceError(rec, req, errors.New("disk on fire"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body authsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, authsdk.ErrorCodeServerError, body.Error)
	require.NotContains(t, body.ErrorDescription, "disk")
}
