package domain

import "fmt"

// Tier is a user's subscription role. free < professional < business <
// enterprise; admin sits outside the order and passes every tier check.
type Tier string

const (
	TierFree         Tier = "free"
	TierProfessional Tier = "professional"
	TierBusiness     Tier = "business"
	TierEnterprise   Tier = "enterprise"
	TierAdmin        Tier = "admin"
)

var tierLevels = map[Tier]int{
	TierFree:         0,
	TierProfessional: 1,
	TierBusiness:     2,
	TierEnterprise:   3,
	TierAdmin:        4,
}

func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := tierLevels[t]; !ok {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}

func (t Tier) Valid() bool {
	_, ok := tierLevels[t]
	return ok
}

func (t Tier) Level() int { return tierLevels[t] }

// AtLeast reports whether t satisfies the required tier.
func (t Tier) AtLeast(required Tier) bool {
	if t == TierAdmin {
		return true
	}
	return t.Level() >= required.Level()
}

// Grantable reports whether an invite may hand out t. Admin is never
// granted through an invitation.
func (t Tier) Grantable() bool {
	return t.Valid() && t != TierAdmin
}

// EligibleToInvite lists the tiers whose holders may send invitations.
func (t Tier) EligibleToInvite() bool {
	switch t {
	case TierBusiness, TierEnterprise, TierAdmin:
		return true
	}
	return false
}

// AllowedUsers is the advertised team size of a plan.
func (t Tier) AllowedUsers() int {
	switch t {
	case TierFree:
		return 1
	case TierProfessional:
		return 5
	case TierBusiness:
		return 10
	case TierEnterprise:
		return 20
	}
	return 0
}
