package authsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// refreshBuffer renews access tokens slightly before they lapse.
const refreshBuffer = 30 * time.Second

// Session is a signed-in user. Every Session method refreshes the access
// token when it has expired; rotation replaces the stored refresh token.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	user         User
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func newSession(client *SDKClient, auth *AuthResponse) *Session {
	return &Session{
		client:       client,
		user:         auth.User,
		accessToken:  auth.Tokens.AccessToken,
		refreshToken: auth.Tokens.RefreshToken,
		expiresAt:    refreshDeadline(auth.Tokens.ExpiresIn),
	}
}

func refreshDeadline(expiresIn int64) time.Time {
	return time.Now().Add(time.Duration(expiresIn)*time.Second - refreshBuffer)
}

// getValidToken returns a valid access token, automatically refreshing if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited.
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", errors.New("access token expired and no refresh token available")
	}

	auth, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	s.apply(auth)

	return s.accessToken, nil
}

// apply stores a new token pair. Callers hold the write lock.
func (s *Session) apply(auth *AuthResponse) {
	s.user = auth.User
	s.accessToken = auth.Tokens.AccessToken
	s.refreshToken = auth.Tokens.RefreshToken
	s.expiresAt = refreshDeadline(auth.Tokens.ExpiresIn)
}

// call is SDKClient.call with the session's bearer token.
func (s *Session) call(ctx context.Context, method, path string, body, target any, expectedStatus int) error {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return err
	}
	return s.client.call(ctx, method, path, body, token, target, expectedStatus)
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User is the account as of the last sign-in or refresh.
func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Logout revokes this session's refresh token. The access token stays
// valid until it expires.
func (s *Session) Logout(ctx context.Context) error {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	refreshToken := s.refreshToken
	s.refreshToken = ""
	s.mu.Unlock()

	var out MessageResponse
	req := LogoutRequest{RefreshToken: refreshToken}
	return s.client.call(ctx, http.MethodPost, "/v1/auth/logout", req, token, &out, http.StatusOK)
}

// LogoutEverywhere revokes every refresh token of the account, signing out
// other devices too.
func (s *Session) LogoutEverywhere(ctx context.Context) error {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.refreshToken = ""
	s.mu.Unlock()

	var out MessageResponse
	req := LogoutRequest{AllSessions: true}
	return s.client.call(ctx, http.MethodPost, "/v1/auth/logout", req, token, &out, http.StatusOK)
}
