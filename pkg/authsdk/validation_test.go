package authsdk_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/teamauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		req    authsdk.RegisterRequest
		fields []string
	}{
		{"valid", authsdk.RegisterRequest{Email: "a@example.com", Password: "correct-horse"}, nil},
		{"valid with username", authsdk.RegisterRequest{Email: "a@example.com", Password: "correct-horse", Username: "alice_1"}, nil},
		{"missing everything", authsdk.RegisterRequest{}, []string{"email", "password"}},
		{"bad email", authsdk.RegisterRequest{Email: "nope", Password: "correct-horse"}, []string{"email"}},
		{"short password", authsdk.RegisterRequest{Email: "a@example.com", Password: "short"}, []string{"password"}},
		{"long password", authsdk.RegisterRequest{Email: "a@example.com", Password: strings.Repeat("x", 129)}, []string{"password"}},
		{"bad username", authsdk.RegisterRequest{Email: "a@example.com", Password: "correct-horse", Username: "no spaces"}, []string{"username"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.fields == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			fields := authsdk.FieldErrors(err)
			for _, f := range tt.fields {
				require.Contains(t, fields, f)
			}
			require.Len(t, fields, len(tt.fields))
		})
	}
}

func TestPasswordLengthCountsRunes(t *testing.T) {
	t.Parallel()

	// eight runes, sixteen bytes
	req := authsdk.ResetPasswordRequest{Password: "éééééééé"}
	require.NoError(t, req.Validate())
}

func TestCreateInviteRequestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, authsdk.CreateInviteRequest{Email: "b@example.com"}.Validate())
	require.NoError(t, authsdk.CreateInviteRequest{Email: "b@example.com", Role: "enterprise"}.Validate())

	err := authsdk.CreateInviteRequest{Email: "b@example.com", Role: "admin"}.Validate()
	require.Contains(t, authsdk.FieldErrors(err), "role")

	err = authsdk.CreateInviteRequest{Email: "b@example.com", Message: strings.Repeat("m", 501)}.Validate()
	require.Contains(t, authsdk.FieldErrors(err), "message")
}

func TestAcceptInviteRequestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, authsdk.AcceptInviteRequest{}.Validate())
	require.NoError(t, authsdk.AcceptInviteRequest{Name: "Bob", Password: "correct-horse"}.Validate())

	err := authsdk.AcceptInviteRequest{Password: "short"}.Validate()
	require.Contains(t, authsdk.FieldErrors(err), "password")
}

func TestSubscriptionRequestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, authsdk.SubscriptionRequest{Plan: "business", SeatsTotal: 10}.Validate())

	err := authsdk.SubscriptionRequest{Plan: "admin"}.Validate()
	require.Contains(t, authsdk.FieldErrors(err), "plan")

	err = authsdk.SubscriptionRequest{Plan: "business", SeatsTotal: -1}.Validate()
	require.Contains(t, authsdk.FieldErrors(err), "seats_total")
}

func TestFieldErrorsIgnoresPlainErrors(t *testing.T) {
	t.Parallel()
	require.Nil(t, authsdk.FieldErrors(nil))
}
