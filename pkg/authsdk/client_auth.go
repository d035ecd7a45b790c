package authsdk

import (
	"context"
	"net/http"
)

// Register creates an unverified account. The verification link goes out by
// email.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.call(ctx, http.MethodPost, "/v1/auth/register", req, "", &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.call(ctx, http.MethodPost, "/v1/auth/login", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoogleAuth exchanges a Google Sign-In ID token for a session.
func (c *SDKClient) GoogleAuth(ctx context.Context, idToken string) (*AuthResponse, error) {
	var out AuthResponse
	req := GoogleAuthRequest{IDToken: idToken}
	if err := c.call(ctx, http.MethodPost, "/v1/auth/google", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail consumes the token from a verification email.
func (c *SDKClient) VerifyEmail(ctx context.Context, token string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.call(ctx, http.MethodPost, tokenPath("/v1/auth/verify-email", token), nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) ResendVerification(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	req := EmailRequest{Email: email}
	if err := c.call(ctx, http.MethodPost, "/v1/auth/resend-verification", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	req := EmailRequest{Email: email}
	if err := c.call(ctx, http.MethodPost, "/v1/auth/forgot-password", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password with the token from a reset email.
func (c *SDKClient) ResetPassword(ctx context.Context, token, password string) (*AuthResponse, error) {
	var out AuthResponse
	req := ResetPasswordRequest{Password: password}
	if err := c.call(ctx, http.MethodPost, tokenPath("/v1/auth/reset-password", token), req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rotates refreshToken. The presented token is spent either way.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	var out AuthResponse
	req := RefreshRequest{RefreshToken: refreshToken}
	if err := c.call(ctx, http.MethodPost, "/v1/auth/refresh-token", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) CheckEmail(ctx context.Context, email string) (bool, error) {
	var out CheckEmailResponse
	req := EmailRequest{Email: email}
	if err := c.call(ctx, http.MethodPost, "/v1/auth/check-email", req, "", &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.Exists, nil
}
