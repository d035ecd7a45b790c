package authsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/teamauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func authResponse(access, refresh string, expiresIn int64) authsdk.AuthResponse {
	return authsdk.AuthResponse{
		User: authsdk.User{ID: "u1", Email: "alice@example.com", Role: "business"},
		Tokens: authsdk.Tokens{
			AccessToken:  access,
			RefreshToken: refresh,
			TokenType:    "Bearer",
			ExpiresIn:    expiresIn,
		},
	}
}

func TestClientErrorsMatchSentinels(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			writeJSON(w, http.StatusUnauthorized, authsdk.ErrorResponse{
				Error:            authsdk.ErrorCodeInvalidCredentials,
				ErrorDescription: "invalid email or password",
			})
		case "/v1/invites/token/gone":
			writeJSON(w, http.StatusGone, authsdk.ErrorResponse{Error: authsdk.ErrorCodeInviteExpired})
		case "/v1/auth/register":
			writeJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
				Error:  authsdk.ErrorCodeValidation,
				Fields: map[string]string{"email": "must be a valid email address"},
			})
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	t.Cleanup(srv.Close)

	client := authsdk.NewSDKClient(srv.URL + "/")
	ctx := context.Background()

	_, err := client.Login(ctx, authsdk.LoginRequest{Email: "a@example.com", Password: "x"})
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)
	require.Equal(t, http.StatusUnauthorized, authsdk.StatusCode(err))

	_, err = client.GetInvite(ctx, "gone")
	require.ErrorIs(t, err, authsdk.ErrInviteExpired)
	require.NotErrorIs(t, err, authsdk.ErrAlreadyProcessed)

	_, err = client.Register(ctx, authsdk.RegisterRequest{Email: "nope"})
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "must be a valid email address", apiErr.Fields["email"])

	_, err = client.GetLiveness(ctx)
	require.Equal(t, http.StatusBadGateway, authsdk.StatusCode(err))
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, authsdk.ErrorCodeServerError, apiErr.Code)
}

func TestSessionRefreshesExpiredToken(t *testing.T) {
	t.Parallel()

	var refreshes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			// ExpiresIn below the refresh buffer forces an immediate refresh.
			writeJSON(w, http.StatusOK, authResponse("access-1", "refresh-1", 1))
		case "/v1/auth/refresh-token":
			var req authsdk.RefreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "refresh-1", req.RefreshToken)
			refreshes.Add(1)
			writeJSON(w, http.StatusOK, authResponse("access-2", "refresh-2", 3600))
		case "/v1/auth/me":
			require.Equal(t, "Bearer access-2", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, authsdk.User{ID: "u1", Email: "alice@example.com"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client := authsdk.NewSDKClient(srv.URL)
	session, err := client.AuthenticateWithPassword(context.Background(), "alice@example.com", "correct-horse")
	require.NoError(t, err)

	me, err := session.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "u1", me.ID)

	_, err = session.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), refreshes.Load())
	require.Equal(t, "refresh-2", session.RefreshToken())
}

func TestSessionWithoutRefreshTokenFails(t *testing.T) {
	t.Parallel()

	client := authsdk.NewSDKClient("http://127.0.0.1:0")
	session := client.NewSessionFromTokens("access", "", 0)

	_, err := session.Me(context.Background())
	require.Error(t, err)
}

func TestSessionLogoutSendsRefreshToken(t *testing.T) {
	t.Parallel()

	var got authsdk.LogoutRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/logout", r.URL.Path)
		require.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "logged out"})
	}))
	t.Cleanup(srv.Close)

	session := authsdk.NewSDKClient(srv.URL).NewSessionFromTokens("access", "refresh", 3600)
	require.NoError(t, session.Logout(context.Background()))
	require.Equal(t, "refresh", got.RefreshToken)
	require.Empty(t, session.RefreshToken())
}

func TestListTeamInvitesQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/invites/team", r.URL.Path)
		require.Equal(t, "pending", r.URL.Query().Get("status"))
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		require.Empty(t, r.URL.Query().Get("skip"))
		writeJSON(w, http.StatusOK, authsdk.InviteListResponse{Total: 0, Limit: 5})
	}))
	t.Cleanup(srv.Close)

	session := authsdk.NewSDKClient(srv.URL).NewSessionFromTokens("access", "refresh", 3600)
	page, err := session.ListTeamInvites(context.Background(), authsdk.ListInvitesOptions{Status: "pending", Limit: 5})
	require.NoError(t, err)
	require.Equal(t, 5, page.Limit)
}
