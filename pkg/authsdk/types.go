package authsdk

import (
	"time"

	"github.com/aussiebroadwan/teamauth/pkg/jwtx"
)

// ============================================================================
// Account Types
// ============================================================================

// User is the public view of an account. Credential fields never appear on
// the wire.
type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Username        string     `json:"username,omitempty"`
	Name            string     `json:"name"`
	Company         string     `json:"company,omitempty"`
	ProfilePicture  string     `json:"profile_picture,omitempty"`
	Role            string     `json:"role" example:"business"`
	IsActive        bool       `json:"is_active"`
	IsEmailVerified bool       `json:"is_email_verified"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	ParentAccount   string     `json:"parent_account,omitempty"`
	ChildAccounts   []string   `json:"child_accounts,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Tokens is a signed-in session. The same values are also set as the jwt
// and refreshToken cookies.
type Tokens struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type" example:"Bearer"`
	ExpiresIn        int64     `json:"expires_in" example:"3600"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"correct-horse"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Company  string `json:"company,omitempty"`
}

type RegisterResponse struct {
	User     User     `json:"user"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by every endpoint that signs a user in.
type AuthResponse struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

type GoogleAuthRequest struct {
	IDToken string `json:"id_token"`
}

// EmailRequest carries a single address: resend-verification,
// forgot-password and check-email.
type EmailRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// RefreshRequest may be empty when the refreshToken cookie is sent.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
	// AllSessions revokes every refresh token of the account.
	AllSessions bool `json:"all_sessions,omitempty"`
}

// MessageResponse acknowledges an action with no other result.
type MessageResponse struct {
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

type CheckEmailResponse struct {
	Exists bool `json:"exists"`
}

// ============================================================================
// Invite Types
// ============================================================================

type Invite struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	InvitedBy   string     `json:"invited_by"`
	TeamID      string     `json:"team_id"`
	Role        string     `json:"role" example:"business"`
	Status      string     `json:"status" example:"pending"`
	Message     string     `json:"message,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
	ResendCount int        `json:"resend_count"`
	LastResent  *time.Time `json:"last_resent,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateInviteRequest struct {
	Email   string `json:"email"`
	Role    string `json:"role,omitempty" example:"business"`
	Message string `json:"message,omitempty"`
}

type InviteResponse struct {
	Invite   Invite   `json:"invite"`
	Warnings []string `json:"warnings,omitempty"`
}

// InviteDetailsResponse is what an invitee sees before accepting.
type InviteDetailsResponse struct {
	Invite  Invite `json:"invite"`
	Inviter User   `json:"inviter"`
	Team    User   `json:"team"`
}

// AcceptInviteRequest needs Name and Password only when the invited email
// has no account yet.
type AcceptInviteRequest struct {
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

type AcceptInviteResponse struct {
	User      User     `json:"user"`
	Team      User     `json:"team"`
	IsNewUser bool     `json:"is_new_user"`
	Warnings  []string `json:"warnings,omitempty"`
}

type InviteListResponse struct {
	Invites []Invite `json:"invites"`
	Total   int      `json:"total"`
	Limit   int      `json:"limit"`
	Skip    int      `json:"skip"`
}

// ListInvitesOptions filters GET /v1/invites/team. Zero values use the
// server defaults.
type ListInvitesOptions struct {
	Status string
	Limit  int
	Skip   int
}

type CanInviteResponse struct {
	CanInvite      bool   `json:"can_invite"`
	Role           string `json:"role"`
	Plan           string `json:"plan,omitempty"`
	SeatsTotal     int    `json:"seats_total"`
	SeatsUsed      int    `json:"seats_used"`
	SeatsAvailable int    `json:"seats_available"`
	SeatLimited    bool   `json:"seat_limited"`
}

// ============================================================================
// Admin Types
// ============================================================================

type Subscription struct {
	UserID     string     `json:"user_id"`
	Plan       string     `json:"plan" example:"business"`
	Status     string     `json:"status" example:"active"`
	SeatsTotal int        `json:"seats_total"`
	SeatsUsed  int        `json:"seats_used"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	AutoRenew  bool       `json:"auto_renew"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type SubscriptionRequest struct {
	Plan       string     `json:"plan" example:"business"`
	Status     string     `json:"status,omitempty" example:"active"`
	SeatsTotal int        `json:"seats_total,omitempty"`
	SeatsUsed  int        `json:"seats_used,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	AutoRenew  bool       `json:"auto_renew"`
}

type SweepResponse struct {
	ExpiredInvites       int64 `json:"expired_invites"`
	DeletedRefreshTokens int64 `json:"deleted_refresh_tokens"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is served by /livez and /readyz; only readyz fills Checks.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse holds the public keys that verify issued tokens.
type JWKSResponse jwtx.JWKS
