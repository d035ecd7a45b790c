package domain

import "time"

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteExpired  InviteStatus = "expired"
)

func (s InviteStatus) Valid() bool {
	switch s {
	case InvitePending, InviteAccepted, InviteDeclined, InviteExpired:
		return true
	}
	return false
}

// MaxInviteMessage bounds the personal note an inviter can attach.
const MaxInviteMessage = 500

type Invite struct {
	ID          string
	Email       string
	InvitedBy   string
	TeamID      string
	Role        Tier
	TokenHash   string
	Status      InviteStatus
	Message     string
	ExpiresAt   time.Time
	ResendCount int
	LastResent  *time.Time

	// Set when an inviter withdrew the invite rather than letting it lapse.
	CancelledAt *time.Time
	CancelledBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExpiredAt reports whether the invite has lapsed by now. An invite is
// only usable while now is strictly before ExpiresAt.
func (i Invite) ExpiredAt(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// CanBeManagedBy reports whether userID may resend or cancel the invite.
func (i Invite) CanBeManagedBy(userID string) bool {
	return userID == i.InvitedBy || userID == i.TeamID
}

// PublicInvite is an Invite without its token fingerprint.
type PublicInvite struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	InvitedBy   string       `json:"invited_by"`
	TeamID      string       `json:"team_id"`
	Role        Tier         `json:"role"`
	Status      InviteStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	ExpiresAt   time.Time    `json:"expires_at"`
	ResendCount int          `json:"resend_count"`
	LastResent  *time.Time   `json:"last_resent,omitempty"`
	CancelledAt *time.Time   `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (i Invite) Public() PublicInvite {
	return PublicInvite{
		ID:          i.ID,
		Email:       i.Email,
		InvitedBy:   i.InvitedBy,
		TeamID:      i.TeamID,
		Role:        i.Role,
		Status:      i.Status,
		Message:     i.Message,
		ExpiresAt:   i.ExpiresAt,
		ResendCount: i.ResendCount,
		LastResent:  i.LastResent,
		CancelledAt: i.CancelledAt,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
