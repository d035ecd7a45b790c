package http

import (
	"net/http"

	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/pkg/authsdk"
	"github.com/aussiebroadwan/teamauth/pkg/httpx"
)

// AuthHandler serves the account endpoints under /v1/auth.
type AuthHandler struct {
	Auth    *service.AuthService
	Cookies CookieConfig
}

// signedIn writes a session as JSON and as cookies.
func (h *AuthHandler) signedIn(w http.ResponseWriter, s service.Session) {
	h.Cookies.setSession(w, s.Tokens)
	httpx.WriteJSON(w, http.StatusOK, toAuthResponse(s))
}

// HandleRegister godoc
//
//	@Summary		Register an account
//	@Description	Creates an unverified account and emails a verification link. Email failures are reported in warnings.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"Registration"
//	@Success		201		{object}	authsdk.RegisterResponse	"The created account"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Validation failed"
//	@Failure		409		{object}	authsdk.ErrorResponse		"Email or username taken"
//	@Failure		429		{object}	authsdk.ErrorResponse		"Rate limited"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	reg, err := h.Auth.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Name:     req.Name,
		Company:  req.Company,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.RegisterResponse{
		User:     toUser(reg.User),
		Message:  "Registration successful. Check your email to verify your account.",
		Warnings: reg.Warnings,
	})
}

// HandleLogin godoc
//
//	@Summary		Sign in with email and password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.AuthResponse	"Account and tokens"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid credentials or inactive account"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Email not verified"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Rate limited"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	s, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.signedIn(w, s)
}

// HandleGoogle godoc
//
//	@Summary		Sign in with Google
//	@Description	Exchanges a Google ID token for a session, linking or creating the account by email.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.GoogleAuthRequest	true	"Google ID token"
//	@Success		200		{object}	authsdk.AuthResponse		"Account and tokens"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Google sign-in disabled"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Token rejected"
//	@Router			/v1/auth/google [post].
func (h *AuthHandler) HandleGoogle(w http.ResponseWriter, r *http.Request) {
	var req authsdk.GoogleAuthRequest
	if !decode(w, r, &req) {
		return
	}

	s, err := h.Auth.GoogleAuth(r.Context(), req.IDToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.signedIn(w, s)
}

// HandleVerifyEmail godoc
//
//	@Summary		Verify an email address
//	@Description	Consumes the emailed verification token and signs the user in.
//	@Tags			Auth
//	@Produce		json
//	@Param			token	path		string					true	"Verification token"
//	@Success		200		{object}	authsdk.AuthResponse	"Account and tokens"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid or expired token"
//	@Router			/v1/auth/verify-email/{token} [post].
func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	s, err := h.Auth.VerifyEmail(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.signedIn(w, s)
}

// HandleResendVerification godoc
//
//	@Summary		Resend the verification email
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.EmailRequest	true	"Account email"
//	@Success		200		{object}	authsdk.MessageResponse	"Sent"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Already verified"
//	@Failure		404		{object}	authsdk.ErrorResponse	"No such account"
//	@Router			/v1/auth/resend-verification [post].
func (h *AuthHandler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req authsdk.EmailRequest
	if !decode(w, r, &req) {
		return
	}

	warnings, err := h.Auth.ResendVerification(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Message:  "Verification email sent.",
		Warnings: warnings,
	})
}

// HandleForgotPassword godoc
//
//	@Summary		Request a password reset
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.EmailRequest	true	"Account email"
//	@Success		200		{object}	authsdk.MessageResponse	"Reset email sent"
//	@Failure		404		{object}	authsdk.ErrorResponse	"No such account"
//	@Router			/v1/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.EmailRequest
	if !decode(w, r, &req) {
		return
	}

	warnings, err := h.Auth.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Message:  "Password reset instructions sent.",
		Warnings: warnings,
	})
}

// HandleResetPassword godoc
//
//	@Summary		Reset a password
//	@Description	Sets a new password with an emailed reset token. Every earlier session is invalidated.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string							true	"Reset token"
//	@Param			request	body		authsdk.ResetPasswordRequest	true	"New password"
//	@Success		200		{object}	authsdk.AuthResponse			"Account and fresh tokens"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Invalid or expired token"
//	@Router			/v1/auth/reset-password/{token} [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	s, err := h.Auth.ResetPassword(r.Context(), r.PathValue("token"), req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.signedIn(w, s)
}

// HandleChangePassword godoc
//
//	@Summary		Change the password
//	@Description	Requires the current password. Other sessions are invalidated; the response carries fresh tokens.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	authsdk.AuthResponse			"Account and fresh tokens"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Wrong current password"
//	@Router			/v1/auth/change-password [post].
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	var req authsdk.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	s, err := h.Auth.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.signedIn(w, s)
}

// HandleRefresh godoc
//
//	@Summary		Rotate a refresh token
//	@Description	Accepts the refresh token in the body, the refreshToken cookie or a bearer header. The presented token is spent.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	false	"Refresh token"
//	@Success		200		{object}	authsdk.AuthResponse	"Account and rotated tokens"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid refresh token"
//	@Router			/v1/auth/refresh-token [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	s, err := h.Auth.RefreshToken(r.Context(), refreshTokenFrom(r, req.RefreshToken))
	if err != nil {
		h.Cookies.clearSession(w)
		writeServiceError(w, r, err)
		return
	}
	h.signedIn(w, s)
}

// HandleLogout godoc
//
//	@Summary		Sign out
//	@Description	Revokes the presented refresh token, or all of them with all_sessions, and clears the session cookies.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.LogoutRequest	false	"Refresh token to revoke"
//	@Success		200		{object}	authsdk.MessageResponse	"Signed out"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	var req authsdk.LogoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	var err error
	if req.AllSessions {
		err = h.Auth.LogoutEverywhere(r.Context(), user.ID)
	} else {
		token := req.RefreshToken
		if token == "" {
			if ck, cerr := r.Cookie(refreshCookie); cerr == nil {
				token = ck.Value
			}
		}
		err = h.Auth.Logout(r.Context(), user.ID, token)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.clearSession(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Logged out."})
}

// HandleMe godoc
//
//	@Summary		Current account
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.User			"The signed-in account"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Not signed in"
//	@Router			/v1/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	me, err := h.Auth.CurrentUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(me))
}

// HandleCheckEmail godoc
//
//	@Summary		Check whether an email is registered
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.EmailRequest		true	"Email"
//	@Success		200		{object}	authsdk.CheckEmailResponse	"exists"
//	@Router			/v1/auth/check-email [post].
func (h *AuthHandler) HandleCheckEmail(w http.ResponseWriter, r *http.Request) {
	var req authsdk.EmailRequest
	if !decode(w, r, &req) {
		return
	}

	exists, err := h.Auth.CheckEmail(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.CheckEmailResponse{Exists: exists})
}
