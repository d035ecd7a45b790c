package http

import (
	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/pkg/authsdk"
)

func toUser(u domain.PublicUser) authsdk.User {
	return authsdk.User{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		Name:            u.Name,
		Company:         u.Company,
		ProfilePicture:  u.ProfilePicture,
		Role:            string(u.Role),
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		LastLogin:       u.LastLogin,
		ParentAccount:   u.ParentAccount,
		ChildAccounts:   u.ChildAccounts,
		CreatedAt:       u.CreatedAt,
	}
}

func toTokens(p domain.TokenPair) authsdk.Tokens {
	return authsdk.Tokens{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		TokenType:        p.TokenType,
		ExpiresIn:        p.ExpiresIn,
		AccessExpiresAt:  p.AccessExpiresAt,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}
}

func toAuthResponse(s service.Session) authsdk.AuthResponse {
	return authsdk.AuthResponse{User: toUser(s.User), Tokens: toTokens(s.Tokens)}
}

func toInvite(inv domain.Invite) authsdk.Invite {
	p := inv.Public()
	return authsdk.Invite{
		ID:          p.ID,
		Email:       p.Email,
		InvitedBy:   p.InvitedBy,
		TeamID:      p.TeamID,
		Role:        string(p.Role),
		Status:      string(p.Status),
		Message:     p.Message,
		ExpiresAt:   p.ExpiresAt,
		ResendCount: p.ResendCount,
		LastResent:  p.LastResent,
		CancelledAt: p.CancelledAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toInviteResponse(res service.InviteResult) authsdk.InviteResponse {
	return authsdk.InviteResponse{Invite: toInvite(res.Invite), Warnings: res.Warnings}
}

func toInvites(invs []domain.Invite) []authsdk.Invite {
	out := make([]authsdk.Invite, 0, len(invs))
	for _, inv := range invs {
		out = append(out, toInvite(inv))
	}
	return out
}

func toSubscription(s domain.Subscription) authsdk.Subscription {
	return authsdk.Subscription{
		UserID:     s.UserID,
		Plan:       string(s.Plan),
		Status:     string(s.Status),
		SeatsTotal: s.SeatsTotal,
		SeatsUsed:  s.SeatsUsed,
		StartDate:  s.StartDate,
		EndDate:    s.EndDate,
		AutoRenew:  s.AutoRenew,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func toEligibility(e service.Eligibility) authsdk.CanInviteResponse {
	return authsdk.CanInviteResponse{
		CanInvite:      e.CanInvite,
		Role:           string(e.Role),
		Plan:           string(e.Plan),
		SeatsTotal:     e.SeatsTotal,
		SeatsUsed:      e.SeatsUsed,
		SeatsAvailable: e.SeatsAvailable,
		SeatLimited:    e.SeatLimited,
	}
}
