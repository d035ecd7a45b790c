package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/mail"
	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestCreateInvite(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 5)

	res, err := h.invite.Create(ctx, service.CreateInviteInput{
		Email:     " New@Example.com",
		InvitedBy: owner.ID,
		TeamID:    owner.ID,
		Message:   "join us",
	})
	require.NoError(t, err)
	require.Empty(t, res.Warnings)

	inv := res.Invite
	require.Equal(t, "new@example.com", inv.Email)
	require.Equal(t, domain.InvitePending, inv.Status)
	require.Equal(t, domain.TierBusiness, inv.Role)
	require.Equal(t, testStart.Add(service.DefaultInviteTTL), inv.ExpiresAt)

	msg := h.mail.last(t, mail.TemplateTeamInvitation)
	require.Equal(t, "new@example.com", msg.To)
	require.Equal(t, "join us", msg.Data["Message"])
	raw := tokenFrom(t, msg, "InviteURL")
	require.Equal(t, cryptox.FingerprintToken(raw), inv.TokenHash)
}

func TestCreateInviteRejects(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 5)
	stranger := h.verifiedUser(t, "stranger@example.com", domain.TierBusiness)
	pro := h.teamOwner(t, "pro@example.com", domain.TierProfessional, 5)
	noSub := h.verifiedUser(t, "nosub@example.com", domain.TierBusiness)

	tests := []struct {
		name string
		in   service.CreateInviteInput
		want error
	}{
		{
			name: "not a member of the team",
			in:   service.CreateInviteInput{Email: "x@example.com", InvitedBy: stranger.ID, TeamID: owner.ID},
			want: service.ErrForbidden,
		},
		{
			name: "no subscription",
			in:   service.CreateInviteInput{Email: "x@example.com", InvitedBy: noSub.ID, TeamID: noSub.ID},
			want: service.ErrNoSubscription,
		},
		{
			name: "admin role cannot be granted",
			in:   service.CreateInviteInput{Email: "x@example.com", InvitedBy: owner.ID, TeamID: owner.ID, Role: domain.TierAdmin},
			want: service.ErrValidation,
		},
		{
			name: "owner invites themself",
			in:   service.CreateInviteInput{Email: "owner@example.com", InvitedBy: owner.ID, TeamID: owner.ID},
			want: service.ErrAlreadyMember,
		},
		{
			name: "message too long",
			in:   service.CreateInviteInput{Email: "x@example.com", InvitedBy: owner.ID, TeamID: owner.ID, Message: string(make([]rune, domain.MaxInviteMessage+1))},
			want: service.ErrValidation,
		},
		{
			name: "unknown inviter",
			in:   service.CreateInviteInput{Email: "x@example.com", InvitedBy: "missing", TeamID: owner.ID},
			want: service.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.invite.Create(ctx, tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("free plan is not eligible", func(t *testing.T) {
		free := h.verifiedUser(t, "free@example.com", domain.TierFree)
		_, err := h.subs.Upsert(ctx, free.ID, service.SubscriptionInput{Plan: domain.TierFree})
		require.NoError(t, err)

		_, err = h.invite.Create(ctx, service.CreateInviteInput{Email: "x@example.com", InvitedBy: free.ID, TeamID: free.ID})
		require.ErrorIs(t, err, service.ErrPlanNotEligible)
	})

	t.Run("professional plan is not seat limited", func(t *testing.T) {
		for _, email := range []string{"p1@example.com", "p2@example.com", "p3@example.com", "p4@example.com", "p5@example.com", "p6@example.com"} {
			_, err := h.invite.Create(ctx, service.CreateInviteInput{Email: email, InvitedBy: pro.ID, TeamID: pro.ID})
			require.NoError(t, err)
		}
	})
}

func TestSeatLimitCountsPendingInvites(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 2)

	_, first := h.sendInvite(t, owner, "a@example.com")
	h.sendInvite(t, owner, "b@example.com")

	_, err := h.invite.Create(ctx, service.CreateInviteInput{Email: "c@example.com", InvitedBy: owner.ID, TeamID: owner.ID})
	require.ErrorIs(t, err, service.ErrSeatLimitReached)

	// Accepting converts a pending seat into a member seat.
	_, err = h.invite.Accept(ctx, first, service.AcceptInput{Name: "A", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = h.invite.Create(ctx, service.CreateInviteInput{Email: "c@example.com", InvitedBy: owner.ID, TeamID: owner.ID})
	require.ErrorIs(t, err, service.ErrSeatLimitReached)
}

func TestDuplicatePendingInvite(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 5)

	inv, _ := h.sendInvite(t, owner, "dup@example.com")

	_, err := h.invite.Create(ctx, service.CreateInviteInput{Email: "DUP@example.com", InvitedBy: owner.ID, TeamID: owner.ID})
	require.ErrorIs(t, err, service.ErrDuplicatePending)

	cancelled, err := h.invite.Cancel(ctx, inv.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InviteExpired, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	require.Equal(t, owner.ID, cancelled.CancelledBy)

	_, err = h.invite.Create(ctx, service.CreateInviteInput{Email: "dup@example.com", InvitedBy: owner.ID, TeamID: owner.ID})
	require.NoError(t, err)
}

func TestMemberMayInviteForTheirTeam(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 5)
	_, raw := h.sendInvite(t, owner, "member@example.com")
	acc, err := h.invite.Accept(ctx, raw, service.AcceptInput{Name: "M", Password: "correct-horse"})
	require.NoError(t, err)

	res, err := h.invite.Create(ctx, service.CreateInviteInput{Email: "friend@example.com", InvitedBy: acc.User.ID, TeamID: owner.ID})
	require.NoError(t, err)
	require.Equal(t, acc.User.ID, res.Invite.InvitedBy)

	_, err = h.invite.Create(ctx, service.CreateInviteInput{Email: "member@example.com", InvitedBy: owner.ID, TeamID: owner.ID})
	require.ErrorIs(t, err, service.ErrAlreadyMember)
}

func TestGetByToken(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 5)
	inv, raw := h.sendInvite(t, owner, "look@example.com")

	t.Run("read does not change state", func(t *testing.T) {
		for range 2 {
			d, err := h.invite.GetByToken(ctx, raw)
			require.NoError(t, err)
			require.Equal(t, inv.ID, d.Invite.ID)
			require.Equal(t, domain.InvitePending, d.Invite.Status)
			require.Equal(t, owner.ID, d.Team.ID)
			require.Equal(t, owner.ID, d.Inviter.ID)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := h.invite.GetByToken(ctx, "nope")
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("expires exactly at expiresAt", func(t *testing.T) {
		h.clock.Advance(service.DefaultInviteTTL)

		_, err := h.invite.GetByToken(ctx, raw)
		require.ErrorIs(t, err, service.ErrExpired)

		stored, err := h.store.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InviteExpired, stored.Status)

		_, err = h.invite.GetByToken(ctx, raw)
		require.ErrorIs(t, err, service.ErrExpired)
		require.ErrorIs(t, err, service.ErrAlreadyProcessed)
	})
}

func TestAcceptNewUser(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 5)
	_, raw := h.sendInvite(t, owner, "fresh@example.com")

	_, err := h.invite.Accept(ctx, raw, service.AcceptInput{Password: "correct-horse"})
	require.ErrorIs(t, err, service.ErrValidation)

	acc, err := h.invite.Accept(ctx, raw, service.AcceptInput{Name: "Fresh", Password: "correct-horse"})
	require.NoError(t, err)
	require.True(t, acc.IsNewUser)
	require.True(t, acc.User.IsEmailVerified)
	require.Equal(t, domain.TierBusiness, acc.User.Role)
	require.Equal(t, owner.ID, acc.User.ParentAccount)
	require.Contains(t, acc.Team.ChildAccounts, acc.User.ID)

	require.Equal(t, 1, h.mail.count(mail.TemplateTeamWelcomeNew))
	require.Equal(t, 1, h.mail.count(mail.TemplateTeamMemberJoined))

	_, err = h.auth.Login(ctx, "fresh@example.com", "correct-horse")
	require.NoError(t, err)

	t.Run("second accept is already processed", func(t *testing.T) {
		_, err := h.invite.Accept(ctx, raw, service.AcceptInput{Name: "Fresh", Password: "correct-horse"})
		require.ErrorIs(t, err, service.ErrAlreadyProcessed)

		n, err := h.store.Users().CountActiveChildAccounts(ctx, owner.ID)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})
}

func TestAcceptExistingUser(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 5)

	reg, err := h.auth.Register(ctx, service.RegisterInput{Email: "exist@example.com", Password: "correct-horse", Name: "E"})
	require.NoError(t, err)
	require.False(t, reg.User.IsEmailVerified)

	_, raw := h.sendInvite(t, owner, "exist@example.com")
	acc, err := h.invite.Accept(ctx, raw, service.AcceptInput{})
	require.NoError(t, err)
	require.False(t, acc.IsNewUser)
	require.Equal(t, reg.User.ID, acc.User.ID)
	require.True(t, acc.User.IsEmailVerified)
	require.Equal(t, domain.TierBusiness, acc.User.Role)
	require.Equal(t, 1, h.mail.count(mail.TemplateTeamWelcomeExisting))
}

func TestAcceptUserOnAnotherTeam(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	first := h.teamOwner(t, "first@example.com", domain.TierBusiness, 5)
	second := h.teamOwner(t, "second@example.com", domain.TierBusiness, 5)

	_, raw := h.sendInvite(t, first, "shared@example.com")
	_, err := h.invite.Accept(ctx, raw, service.AcceptInput{Name: "S", Password: "correct-horse"})
	require.NoError(t, err)

	_, raw = h.sendInvite(t, second, "shared@example.com")
	_, err = h.invite.Accept(ctx, raw, service.AcceptInput{})
	require.ErrorIs(t, err, service.ErrAlreadyOnTeam)

	t.Run("an owner cannot join another team", func(t *testing.T) {
		_, raw := h.sendInvite(t, second, "first@example.com")
		_, err := h.invite.Accept(ctx, raw, service.AcceptInput{})
		require.ErrorIs(t, err, service.ErrAlreadyOnTeam)
	})
}

func TestDecline(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 5)
	_, raw := h.sendInvite(t, owner, "no@example.com")

	res, err := h.invite.Decline(ctx, raw)
	require.NoError(t, err)
	require.Equal(t, domain.InviteDeclined, res.Invite.Status)

	msg := h.mail.last(t, mail.TemplateTeamInviteDeclined)
	require.Equal(t, owner.Email, msg.To)

	_, err = h.invite.Decline(ctx, raw)
	require.ErrorIs(t, err, service.ErrAlreadyProcessed)
	_, err = h.invite.Accept(ctx, raw, service.AcceptInput{Name: "N", Password: "correct-horse"})
	require.ErrorIs(t, err, service.ErrAlreadyProcessed)
}

func TestResend(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 5)
	stranger := h.verifiedUser(t, "stranger@example.com", domain.TierBusiness)
	inv, oldRaw := h.sendInvite(t, owner, "again@example.com")

	_, err := h.invite.Resend(ctx, inv.ID, stranger.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = h.invite.Resend(ctx, "missing", owner.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	h.clock.Advance(time.Hour)
	res, err := h.invite.Resend(ctx, inv.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 1, res.Invite.ResendCount)
	require.NotNil(t, res.Invite.LastResent)
	require.Equal(t, inv.ExpiresAt, res.Invite.ExpiresAt)

	newRaw := tokenFrom(t, h.mail.last(t, mail.TemplateTeamInvitation), "InviteURL")
	require.NotEqual(t, oldRaw, newRaw)

	_, err = h.invite.GetByToken(ctx, oldRaw)
	require.ErrorIs(t, err, service.ErrNotFound)
	_, err = h.invite.GetByToken(ctx, newRaw)
	require.NoError(t, err)

	t.Run("lapsed invite gets a fresh expiry", func(t *testing.T) {
		h.clock.Advance(service.DefaultInviteTTL)
		res, err := h.invite.Resend(ctx, inv.ID, owner.ID)
		require.NoError(t, err)
		require.Equal(t, h.clock.Now().Add(service.DefaultInviteTTL), res.Invite.ExpiresAt)
		require.Equal(t, 2, res.Invite.ResendCount)
	})

	t.Run("terminal invite cannot be resent", func(t *testing.T) {
		_, err := h.invite.Cancel(ctx, inv.ID, owner.ID)
		require.NoError(t, err)

		_, err = h.invite.Resend(ctx, inv.ID, owner.ID)
		require.ErrorIs(t, err, service.ErrAlreadyProcessed)
		_, err = h.invite.Cancel(ctx, inv.ID, owner.ID)
		require.ErrorIs(t, err, service.ErrAlreadyProcessed)
	})
}

func TestInviteEmailFailureKeepsInvite(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 5)
	h.mail.fail = true

	res, err := h.invite.Create(ctx, service.CreateInviteInput{Email: "lost@example.com", InvitedBy: owner.ID, TeamID: owner.ID})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)

	stored, err := h.store.Invites().GetInviteByID(ctx, res.Invite.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitePending, stored.Status)
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 5)
	h.sendInvite(t, owner, "a@example.com")
	h.clock.Advance(time.Hour)
	h.sendInvite(t, owner, "b@example.com")

	h.clock.Advance(service.DefaultInviteTTL - time.Hour)
	n, err := h.invite.SweepExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = h.invite.SweepExpired(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	h.clock.Advance(time.Hour)
	n, err = h.invite.SweepExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestListForTeam(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 10)

	var ids []string
	for _, email := range []string{"1@example.com", "2@example.com", "3@example.com"} {
		inv, _ := h.sendInvite(t, owner, email)
		ids = append(ids, inv.ID)
		h.clock.Advance(time.Second)
	}
	_, err := h.invite.Cancel(ctx, ids[0], owner.ID)
	require.NoError(t, err)

	page, err := h.invite.ListForTeam(ctx, owner.ID, service.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	require.Len(t, page.Invites, 2)
	require.Equal(t, ids[2], page.Invites[0].ID)
	require.Equal(t, ids[1], page.Invites[1].ID)

	page, err = h.invite.ListForTeam(ctx, owner.ID, service.ListOptions{Status: domain.InvitePending})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	require.Equal(t, service.DefaultInviteListLimit, page.Limit)

	page, err = h.invite.ListForTeam(ctx, owner.ID, service.ListOptions{Limit: 1000, Skip: 2})
	require.NoError(t, err)
	require.Equal(t, service.MaxInviteListLimit, page.Limit)
	require.Len(t, page.Invites, 1)
	require.Equal(t, ids[0], page.Invites[0].ID)

	_, err = h.invite.ListForTeam(ctx, owner.ID, service.ListOptions{Status: "bogus"})
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestCanInvite(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 3)
	h.sendInvite(t, owner, "a@example.com")

	el, err := h.invite.CanInvite(ctx, owner)
	require.NoError(t, err)
	require.True(t, el.CanInvite)
	require.Equal(t, 3, el.SeatsTotal)
	require.Equal(t, 1, el.SeatsUsed)
	require.Equal(t, 2, el.SeatsAvailable)
	require.True(t, el.SeatLimited)

	free := h.verifiedUser(t, "free@example.com", domain.TierFree)
	el, err = h.invite.CanInvite(ctx, free)
	require.NoError(t, err)
	require.False(t, el.CanInvite)
	require.Zero(t, el.SeatsTotal)
}

func TestHousekeepingRunOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.teamOwner(t, "owner@example.com", domain.TierBusiness, 5)
	h.sendInvite(t, owner, "a@example.com")
	_, err := h.tokens.IssuePair(ctx, owner)
	require.NoError(t, err)

	hk := service.NewHousekeepingService(h.store, h.invite, h.clock, nil, 0)
	require.Equal(t, service.DefaultHousekeepingInterval, hk.Interval)

	res := hk.RunOnce(ctx)
	require.Zero(t, res.ExpiredInvites)
	require.Zero(t, res.DeletedRefreshTokens)

	h.clock.Advance(31 * 24 * time.Hour)
	res = hk.RunOnce(ctx)
	require.EqualValues(t, 1, res.ExpiredInvites)
	require.EqualValues(t, 1, res.DeletedRefreshTokens)
}
