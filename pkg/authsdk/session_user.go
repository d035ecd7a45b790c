package authsdk

import (
	"context"
	"net/http"
)

// Me fetches the signed-in account.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var out User
	if err := s.call(ctx, http.MethodGet, "/v1/auth/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the password. Every other session of the user is
// invalidated; this one continues on the returned tokens.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	var out AuthResponse
	req := ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	if err := s.call(ctx, http.MethodPost, "/v1/auth/change-password", req, &out, http.StatusOK); err != nil {
		return err
	}

	s.mu.Lock()
	s.apply(&out)
	s.mu.Unlock()
	return nil
}
