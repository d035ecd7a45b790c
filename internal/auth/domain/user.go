package domain

import "time"

type User struct {
	ID             string
	Email          string // lowercased
	Username       string // optional handle, lowercased
	Name           string
	Company        string
	ProfilePicture string
	GoogleID       string

	PasswordHash string // argon2id PHC string, bcrypt for imported accounts
	Role         Tier

	IsActive        bool
	IsEmailVerified bool

	// Both token fields hold fingerprints, never the value emailed out.
	EmailVerificationHash    string
	EmailVerificationExpires *time.Time
	PasswordResetHash        string
	PasswordResetExpires     *time.Time

	PasswordChangedAt *time.Time
	LastLogin         *time.Time

	ParentAccount string
	ChildAccounts []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is a User with every credential field stripped.
type PublicUser struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Username        string     `json:"username,omitempty"`
	Name            string     `json:"name"`
	Company         string     `json:"company,omitempty"`
	ProfilePicture  string     `json:"profile_picture,omitempty"`
	Role            Tier       `json:"role"`
	IsActive        bool       `json:"is_active"`
	IsEmailVerified bool       `json:"is_email_verified"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	ParentAccount   string     `json:"parent_account,omitempty"`
	ChildAccounts   []string   `json:"child_accounts,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		Name:            u.Name,
		Company:         u.Company,
		ProfilePicture:  u.ProfilePicture,
		Role:            u.Role,
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		LastLogin:       u.LastLogin,
		ParentAccount:   u.ParentAccount,
		ChildAccounts:   u.ChildAccounts,
		CreatedAt:       u.CreatedAt,
	}
}

// TeamID is the team this user acts for: its parent, or itself when it
// owns the team.
func (u User) TeamID() string {
	if u.ParentAccount != "" {
		return u.ParentAccount
	}
	return u.ID
}

// TokenPredates reports whether a token issued at iat was minted before the
// user's last password change.
func (u User) TokenPredates(iat time.Time) bool {
	return u.PasswordChangedAt != nil && iat.Before(*u.PasswordChangedAt)
}
