package domain

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionExpired  SubscriptionStatus = "expired"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionActive, SubscriptionCanceled, SubscriptionExpired, SubscriptionPastDue:
		return true
	}
	return false
}

// Subscription belongs to a team owner. SeatsUsed is the billing
// system's figure; enforcement recomputes usage from members and invites.
type Subscription struct {
	UserID     string
	Plan       Tier
	Status     SubscriptionStatus
	SeatsTotal int
	SeatsUsed  int
	StartDate  time.Time
	EndDate    *time.Time
	AutoRenew  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InvitePlan reports whether the plan may invite at all.
func (s Subscription) InvitePlan() bool {
	return s.Plan == TierBusiness || s.Plan == TierProfessional
}

// SeatLimited reports whether invitations count against SeatsTotal.
func (s Subscription) SeatLimited() bool {
	return s.Plan == TierBusiness
}
