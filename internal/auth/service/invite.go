package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/mail"
	"github.com/aussiebroadwan/teamauth/internal/auth/store"
	"github.com/aussiebroadwan/teamauth/pkg/cryptox"
	"github.com/aussiebroadwan/teamauth/pkg/idx"
	"github.com/aussiebroadwan/teamauth/pkg/slogx"
)

const (
	DefaultInviteTTL = 7 * 24 * time.Hour

	DefaultInviteListLimit = 20
	MaxInviteListLimit     = 100
)

// InviteService owns the invitation state machine. Invites start pending
// and end accepted, declined or expired; only pending invites move.
type InviteService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
	Mailer mail.Sender
	Clock  Clock
	Links  Links
	TTL    time.Duration
}

type CreateInviteInput struct {
	Email     string
	InvitedBy string
	TeamID    string
	Role      domain.Tier // defaults to business
	Message   string
}

type InviteResult struct {
	Invite   domain.Invite
	Warnings []string
}

// InviteDetails is an invite together with who sent it and the team it
// leads to.
type InviteDetails struct {
	Invite  domain.Invite
	Inviter domain.PublicUser
	Team    domain.PublicUser
}

type AcceptInput struct {
	Name     string
	Password string
}

type Acceptance struct {
	User      domain.PublicUser
	Team      domain.PublicUser
	IsNewUser bool
	Warnings  []string
}

type ListOptions struct {
	Status domain.InviteStatus
	Limit  int
	Skip   int
}

type InvitePage struct {
	Invites []domain.Invite
	Total   int
	Limit   int
	Skip    int
}

// Eligibility answers whether a user may send invitations, with the seat
// picture of their team when it has a subscription.
type Eligibility struct {
	CanInvite      bool
	Role           domain.Tier
	Plan           domain.Tier
	SeatsTotal     int
	SeatsUsed      int
	SeatsAvailable int
	SeatLimited    bool
}

func (s *InviteService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultInviteTTL
	}
	return s.TTL
}

func alreadyProcessed(status domain.InviteStatus) error {
	if status == domain.InviteExpired {
		return fmt.Errorf("%w: invitation %w", ErrAlreadyProcessed, ErrExpired)
	}
	return fmt.Errorf("%w: invitation already %s", ErrAlreadyProcessed, status)
}

func notFoundAs(err, kind error) error {
	if errors.Is(err, store.ErrNotFound) {
		return kind
	}
	return err
}

// Create issues a pending invitation into teamID. The permission, plan,
// seat and duplicate checks run in the same transaction as the insert.
func (s *InviteService) Create(ctx context.Context, in CreateInviteInput) (InviteResult, error) {
	log := slogx.FromContext(ctx)
	now := nowFrom(s.Clock)

	email := NormalizeEmail(in.Email)
	if email == "" {
		return InviteResult{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = domain.TierBusiness
	}
	if !role.Grantable() {
		return InviteResult{}, fmt.Errorf("%w: role %q cannot be granted", ErrValidation, role)
	}
	message := strings.TrimSpace(in.Message)
	if utf8.RuneCountInString(message) > domain.MaxInviteMessage {
		return InviteResult{}, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, domain.MaxInviteMessage)
	}

	raw, tokenHash, err := cryptox.NewLinkToken()
	if err != nil {
		return InviteResult{}, err
	}

	var (
		inv     domain.Invite
		inviter domain.User
		team    domain.User
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		inviter, err = tx.Users().GetUserByID(ctx, in.InvitedBy)
		if err != nil {
			return notFoundAs(err, ErrNotFound)
		}
		if inviter.ID != in.TeamID && inviter.ParentAccount != in.TeamID {
			return fmt.Errorf("%w: not a member of this team", ErrForbidden)
		}

		team, err = tx.Users().GetUserByID(ctx, in.TeamID)
		if err != nil {
			return notFoundAs(err, ErrNotFound)
		}

		sub, err := tx.Subscriptions().GetSubscriptionByUserID(ctx, in.TeamID)
		if err != nil {
			return notFoundAs(err, ErrNoSubscription)
		}
		if !sub.InvitePlan() {
			return fmt.Errorf("%w: %s plan has no team members", ErrPlanNotEligible, sub.Plan)
		}

		if sub.SeatLimited() {
			used, err := seatsUsed(ctx, tx, in.TeamID)
			if err != nil {
				return err
			}
			if used >= sub.SeatsTotal {
				return fmt.Errorf("%w: %d of %d seats used", ErrSeatLimitReached, used, sub.SeatsTotal)
			}
		}

		existing, err := tx.Users().GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			if existing.ID == in.TeamID || existing.ParentAccount == in.TeamID {
				return ErrAlreadyMember
			}
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		if _, err := tx.Invites().GetPendingInvite(ctx, email, in.TeamID); err == nil {
			return ErrDuplicatePending
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		inv = domain.Invite{
			ID:        idx.NewAt(now).String(),
			Email:     email,
			InvitedBy: inviter.ID,
			TeamID:    in.TeamID,
			Role:      role,
			TokenHash: tokenHash,
			Status:    domain.InvitePending,
			Message:   message,
			ExpiresAt: now.Add(s.ttl()),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Invites().CreateInvite(ctx, inv); err != nil {
			var dup *store.DuplicateKeyError
			if errors.As(err, &dup) && dup.Field == "pending_invite" {
				return ErrDuplicatePending
			}
			return err
		}
		return nil
	})
	if err != nil {
		return InviteResult{}, err
	}

	log.Info("invite created",
		slog.String("invite_id", inv.ID),
		slog.String("team_id", inv.TeamID),
		slog.String("invited_by", inv.InvitedBy),
	)

	n := newNotifier(s.Mailer)
	n.send(ctx, s.invitationMessage(inv, raw, inviter, team))
	return InviteResult{Invite: inv, Warnings: n.Warnings()}, nil
}

// seatsUsed counts active members plus pending invitations.
func seatsUsed(ctx context.Context, st store.Store, teamID string) (int, error) {
	members, err := st.Users().CountActiveChildAccounts(ctx, teamID)
	if err != nil {
		return 0, err
	}
	pending, err := st.Invites().CountPendingInvites(ctx, teamID)
	if err != nil {
		return 0, err
	}
	return members + pending, nil
}

func teamName(team domain.User, fallback string) string {
	if team.Company != "" {
		return team.Company
	}
	return fallback
}

func (s *InviteService) invitationMessage(inv domain.Invite, raw string, inviter, team domain.User) mail.Message {
	name := teamName(team, "their team")
	return mail.Message{
		To:       inv.Email,
		Subject:  fmt.Sprintf("%s has invited you to join %s", inviter.Name, name),
		Template: mail.TemplateTeamInvitation,
		Data: map[string]any{
			"InviterName": inviter.Name,
			"TeamName":    name,
			"Message":     inv.Message,
			"InviteURL":   s.Links.AcceptInvite(raw),
			"ExpiryDate":  inv.ExpiresAt.Format("2 January 2006"),
		},
	}
}

// manageable loads a pending invite that actingUserID may resend or
// cancel.
func (s *InviteService) manageable(ctx context.Context, inviteID, actingUserID string) (domain.Invite, error) {
	inv, err := s.Store.Invites().GetInviteByID(ctx, inviteID)
	if err != nil {
		return domain.Invite{}, notFoundAs(err, ErrNotFound)
	}
	if !inv.CanBeManagedBy(actingUserID) {
		return domain.Invite{}, fmt.Errorf("%w: only the inviter or team owner may manage this invitation", ErrForbidden)
	}
	if inv.Status != domain.InvitePending {
		return domain.Invite{}, alreadyProcessed(inv.Status)
	}
	return inv, nil
}

// lostRace reports the state that beat a failed compare-and-swap.
func (s *InviteService) lostRace(ctx context.Context, id string) error {
	inv, err := s.Store.Invites().GetInviteByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrNotFound)
	}
	return alreadyProcessed(inv.Status)
}

// Resend mails the invitation again under a fresh token. An invite that
// lapsed but was never swept gets a new expiry.
func (s *InviteService) Resend(ctx context.Context, inviteID, actingUserID string) (InviteResult, error) {
	now := nowFrom(s.Clock)

	inv, err := s.manageable(ctx, inviteID, actingUserID)
	if err != nil {
		return InviteResult{}, err
	}

	expiresAt := inv.ExpiresAt
	if inv.ExpiredAt(now) {
		expiresAt = now.Add(s.ttl())
	}

	raw, tokenHash, err := cryptox.NewLinkToken()
	if err != nil {
		return InviteResult{}, err
	}
	ok, err := s.Store.Invites().RecordResend(ctx, inv.ID, tokenHash, expiresAt, now)
	if err != nil {
		return InviteResult{}, err
	}
	if !ok {
		return InviteResult{}, s.lostRace(ctx, inv.ID)
	}

	inv, err = s.Store.Invites().GetInviteByID(ctx, inv.ID)
	if err != nil {
		return InviteResult{}, err
	}
	inviter, err := s.Store.Users().GetUserByID(ctx, actingUserID)
	if err != nil {
		return InviteResult{}, notFoundAs(err, ErrNotFound)
	}
	team, err := s.Store.Users().GetUserByID(ctx, inv.TeamID)
	if err != nil {
		return InviteResult{}, notFoundAs(err, ErrNotFound)
	}

	slogx.FromContext(ctx).Info("invite resent",
		slog.String("invite_id", inv.ID),
		slog.Int("resend_count", inv.ResendCount),
	)

	n := newNotifier(s.Mailer)
	n.send(ctx, s.invitationMessage(inv, raw, inviter, team))
	return InviteResult{Invite: inv, Warnings: n.Warnings()}, nil
}

// Cancel withdraws a pending invite. It ends expired, with the canceller
// recorded.
func (s *InviteService) Cancel(ctx context.Context, inviteID, actingUserID string) (domain.Invite, error) {
	now := nowFrom(s.Clock)

	inv, err := s.manageable(ctx, inviteID, actingUserID)
	if err != nil {
		return domain.Invite{}, err
	}

	ok, err := s.Store.Invites().CancelInvite(ctx, inv.ID, actingUserID, now)
	if err != nil {
		return domain.Invite{}, err
	}
	if !ok {
		return domain.Invite{}, s.lostRace(ctx, inv.ID)
	}

	slogx.FromContext(ctx).Info("invite cancelled",
		slog.String("invite_id", inv.ID),
		slog.String("cancelled_by", actingUserID),
	)

	inv, err = s.Store.Invites().GetInviteByID(ctx, inv.ID)
	if err != nil {
		return domain.Invite{}, err
	}
	return inv, nil
}

// lookup resolves a raw token to a usable pending invite. A pending
// invite found past its expiry is flipped to expired on the way out.
func (s *InviteService) lookup(ctx context.Context, raw string, now time.Time) (domain.Invite, error) {
	if raw == "" {
		return domain.Invite{}, ErrNotFound
	}

	inv, err := s.Store.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(raw))
	if err != nil {
		return domain.Invite{}, notFoundAs(err, ErrNotFound)
	}

	if inv.Status != domain.InvitePending {
		return domain.Invite{}, alreadyProcessed(inv.Status)
	}
	if inv.ExpiredAt(now) {
		ok, err := s.Store.Invites().TransitionInvite(ctx, inv.ID, domain.InviteExpired, now)
		if err != nil {
			return domain.Invite{}, err
		}
		if !ok {
			return domain.Invite{}, s.lostRace(ctx, inv.ID)
		}
		return domain.Invite{}, alreadyProcessed(domain.InviteExpired)
	}
	return inv, nil
}

// GetByToken returns a pending invite with its inviter and team.
func (s *InviteService) GetByToken(ctx context.Context, raw string) (InviteDetails, error) {
	inv, err := s.lookup(ctx, raw, nowFrom(s.Clock))
	if err != nil {
		return InviteDetails{}, err
	}

	out := InviteDetails{Invite: inv}
	if inviter, err := s.Store.Users().GetUserByID(ctx, inv.InvitedBy); err == nil {
		out.Inviter = inviter.Public()
	} else if !errors.Is(err, store.ErrNotFound) {
		return InviteDetails{}, err
	}
	if team, err := s.Store.Users().GetUserByID(ctx, inv.TeamID); err == nil {
		out.Team = team.Public()
	} else if !errors.Is(err, store.ErrNotFound) {
		return InviteDetails{}, err
	}
	return out, nil
}

// Accept joins the invitee to the team, creating a verified account when
// the email has none.
func (s *InviteService) Accept(ctx context.Context, raw string, in AcceptInput) (Acceptance, error) {
	log := slogx.FromContext(ctx)
	now := nowFrom(s.Clock)

	inv, err := s.lookup(ctx, raw, now)
	if err != nil {
		return Acceptance{}, err
	}

	// Hash before the transaction so the write lock is not held through
	// the key derivation.
	var hash string
	if in.Password != "" {
		if err := ValidatePassword(in.Password); err != nil {
			return Acceptance{}, err
		}
		if hash, err = s.Hasher.Hash(in.Password); err != nil {
			return Acceptance{}, err
		}
	}

	var (
		user  domain.User
		team  domain.User
		isNew bool
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		cur, err := tx.Invites().GetInviteByID(ctx, inv.ID)
		if err != nil {
			return notFoundAs(err, ErrNotFound)
		}
		if cur.Status != domain.InvitePending {
			return alreadyProcessed(cur.Status)
		}
		if cur.ExpiredAt(now) {
			return alreadyProcessed(domain.InviteExpired)
		}

		user, err = tx.Users().GetUserByEmail(ctx, cur.Email)
		switch {
		case errors.Is(err, store.ErrNotFound):
			isNew = true
			user, err = newMember(cur, in.Name, hash, now)
			if err != nil {
				return err
			}
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				return mapDuplicate(err)
			}
		case err != nil:
			return err
		default:
			if user.ID == cur.TeamID || user.ParentAccount == cur.TeamID {
				return ErrAlreadyMember
			}
			if user.ParentAccount != "" || len(user.ChildAccounts) > 0 {
				return fmt.Errorf("%w: account already belongs to a team", ErrAlreadyOnTeam)
			}
			user.ParentAccount = cur.TeamID
			user.Role = cur.Role
			user.IsEmailVerified = true
			user.UpdatedAt = now
			if err := tx.Users().SaveUser(ctx, user); err != nil {
				return err
			}
		}

		if err := tx.Users().AddChildAccount(ctx, cur.TeamID, user.ID); err != nil {
			return err
		}

		ok, err := tx.Invites().TransitionInvite(ctx, cur.ID, domain.InviteAccepted, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: invitation changed concurrently", ErrAlreadyProcessed)
		}

		team, err = tx.Users().GetUserByID(ctx, cur.TeamID)
		return notFoundAs(err, ErrNotFound)
	})
	if err != nil {
		return Acceptance{}, err
	}

	log.Info("invite accepted",
		slog.String("invite_id", inv.ID),
		slog.String("team_id", inv.TeamID),
		slog.String("user_id", user.ID),
		slog.Bool("new_user", isNew),
	)

	n := newNotifier(s.Mailer)
	s.notifyAccepted(ctx, n, user, team, isNew)

	return Acceptance{
		User:      user.Public(),
		Team:      team.Public(),
		IsNewUser: isNew,
		Warnings:  n.Warnings(),
	}, nil
}

func newMember(inv domain.Invite, name, hash string, now time.Time) (domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, fmt.Errorf("%w: name is required for a new account", ErrValidation)
	}
	if hash == "" {
		return domain.User{}, fmt.Errorf("%w: password is required for a new account", ErrValidation)
	}
	return domain.User{
		ID:              idx.NewAt(now).String(),
		Email:           inv.Email,
		Name:            name,
		PasswordHash:    hash,
		Role:            inv.Role,
		IsActive:        true,
		IsEmailVerified: true,
		ParentAccount:   inv.TeamID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (s *InviteService) notifyAccepted(ctx context.Context, n *notifier, user, team domain.User, isNew bool) {
	tmpl := mail.TemplateTeamWelcomeExisting
	if isNew {
		tmpl = mail.TemplateTeamWelcomeNew
	}
	n.send(ctx, mail.Message{
		To:       user.Email,
		Subject:  fmt.Sprintf("Welcome to %s", teamName(team, "the team")),
		Template: tmpl,
		Data: map[string]any{
			"Name":         user.Name,
			"TeamName":     teamName(team, "the team"),
			"Role":         string(user.Role),
			"DashboardURL": s.Links.Dashboard(),
		},
	})
	n.send(ctx, mail.Message{
		To:       team.Email,
		Subject:  fmt.Sprintf("%s has joined your team", user.Name),
		Template: mail.TemplateTeamMemberJoined,
		Data: map[string]any{
			"OwnerName":   team.Name,
			"MemberName":  user.Name,
			"MemberEmail": user.Email,
			"TeamName":    teamName(team, "your team"),
			"TeamURL":     s.Links.Team(),
		},
	})
}

// Decline closes the invite and lets the team owner know.
func (s *InviteService) Decline(ctx context.Context, raw string) (InviteResult, error) {
	now := nowFrom(s.Clock)

	inv, err := s.lookup(ctx, raw, now)
	if err != nil {
		return InviteResult{}, err
	}

	ok, err := s.Store.Invites().TransitionInvite(ctx, inv.ID, domain.InviteDeclined, now)
	if err != nil {
		return InviteResult{}, err
	}
	if !ok {
		return InviteResult{}, s.lostRace(ctx, inv.ID)
	}
	inv.Status = domain.InviteDeclined
	inv.UpdatedAt = now

	slogx.FromContext(ctx).Info("invite declined", slog.String("invite_id", inv.ID))

	n := newNotifier(s.Mailer)
	if team, err := s.Store.Users().GetUserByID(ctx, inv.TeamID); err == nil {
		n.send(ctx, mail.Message{
			To:       team.Email,
			Subject:  fmt.Sprintf("Invitation to join %s was declined", teamName(team, "your team")),
			Template: mail.TemplateTeamInviteDeclined,
			Data: map[string]any{
				"OwnerName":    team.Name,
				"InviteeEmail": inv.Email,
				"TeamName":     teamName(team, "your team"),
				"TeamURL":      s.Links.Team(),
			},
		})
	}
	return InviteResult{Invite: inv, Warnings: n.Warnings()}, nil
}

// ListForTeam pages through a team's invitations, newest first. Total
// counts the whole filtered set.
func (s *InviteService) ListForTeam(ctx context.Context, teamID string, opts ListOptions) (InvitePage, error) {
	if opts.Status != "" && !opts.Status.Valid() {
		return InvitePage{}, fmt.Errorf("%w: unknown status %q", ErrValidation, opts.Status)
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultInviteListLimit
	}
	if opts.Limit > MaxInviteListLimit {
		opts.Limit = MaxInviteListLimit
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}

	filter := store.InviteFilter{
		TeamID: teamID,
		Status: opts.Status,
		Limit:  opts.Limit,
		Offset: opts.Skip,
	}
	invites, err := s.Store.Invites().ListInvites(ctx, filter)
	if err != nil {
		return InvitePage{}, err
	}
	total, err := s.Store.Invites().CountInvites(ctx, filter)
	if err != nil {
		return InvitePage{}, err
	}

	return InvitePage{Invites: invites, Total: total, Limit: opts.Limit, Skip: opts.Skip}, nil
}

// SweepExpired expires every pending invite whose time is up.
func (s *InviteService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.Store.Invites().ExpirePendingInvites(ctx, nowFrom(s.Clock))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slogx.FromContext(ctx).Info("expired pending invites", slog.Int64("count", n))
	}
	return n, nil
}

// CanInvite reports whether user's role allows sending invitations.
func (s *InviteService) CanInvite(ctx context.Context, user domain.User) (Eligibility, error) {
	out := Eligibility{
		CanInvite: user.Role.EligibleToInvite(),
		Role:      user.Role,
	}

	teamID := user.TeamID()
	sub, err := s.Store.Subscriptions().GetSubscriptionByUserID(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return out, nil
		}
		return Eligibility{}, err
	}

	used, err := seatsUsed(ctx, s.Store, teamID)
	if err != nil {
		return Eligibility{}, err
	}
	out.Plan = sub.Plan
	out.SeatsTotal = sub.SeatsTotal
	out.SeatsUsed = used
	out.SeatLimited = sub.SeatLimited()
	if avail := sub.SeatsTotal - used; avail > 0 {
		out.SeatsAvailable = avail
	}
	return out, nil
}
