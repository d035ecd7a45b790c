package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/store"
	"github.com/aussiebroadwan/teamauth/internal/auth/store/drivers/sqlite/gen"
)

type invitesRepo struct {
	q *gen.Queries
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	err := r.q.CreateInvite(ctx, gen.CreateInviteParams{
		ID:          inv.ID,
		Email:       inv.Email,
		InvitedBy:   inv.InvitedBy,
		TeamID:      inv.TeamID,
		Role:        string(inv.Role),
		TokenHash:   inv.TokenHash,
		Status:      string(inv.Status),
		Message:     inv.Message,
		ExpiresAt:   inv.ExpiresAt.UTC(),
		ResendCount: int64(inv.ResendCount),
		LastResent:  mapOptionalTime(inv.LastResent),
		CreatedAt:   inv.CreatedAt.UTC(),
		UpdatedAt:   inv.UpdatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	row, err := r.q.GetInviteByID(ctx, id)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return mapInvite(row), nil
}

func (r *invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	row, err := r.q.GetInviteByTokenHash(ctx, hash)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return mapInvite(row), nil
}

func (r *invitesRepo) GetPendingInvite(ctx context.Context, email, teamID string) (domain.Invite, error) {
	row, err := r.q.GetPendingInvite(ctx, gen.GetPendingInviteParams{
		Email:  email,
		TeamID: teamID,
	})
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return mapInvite(row), nil
}

func (r *invitesRepo) TransitionInvite(
	ctx context.Context,
	id string,
	status domain.InviteStatus,
	now time.Time,
) (bool, error) {
	n, err := r.q.TransitionInvite(ctx, gen.TransitionInviteParams{
		Status:    string(status),
		UpdatedAt: now.UTC(),
		ID:        id,
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *invitesRepo) CancelInvite(ctx context.Context, id, cancelledBy string, now time.Time) (bool, error) {
	n, err := r.q.CancelInvite(ctx, gen.CancelInviteParams{
		CancelledAt: mapTimeNull(now),
		CancelledBy: mapStringNull(cancelledBy),
		UpdatedAt:   now.UTC(),
		ID:          id,
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *invitesRepo) RecordResend(
	ctx context.Context,
	id, tokenHash string,
	expiresAt, now time.Time,
) (bool, error) {
	n, err := r.q.RecordResend(ctx, gen.RecordResendParams{
		TokenHash:  tokenHash,
		ExpiresAt:  expiresAt.UTC(),
		LastResent: mapTimeNull(now),
		UpdatedAt:  now.UTC(),
		ID:         id,
	})
	if err != nil {
		return false, mapConstraint(err)
	}
	return n == 1, nil
}

func (r *invitesRepo) CountPendingInvites(ctx context.Context, teamID string) (int, error) {
	n, err := r.q.CountPendingInvites(ctx, teamID)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *invitesRepo) ListInvites(ctx context.Context, f store.InviteFilter) ([]domain.Invite, error) {
	var (
		rows []gen.Invite
		err  error
	)
	if f.Status == "" {
		rows, err = r.q.ListTeamInvites(ctx, gen.ListTeamInvitesParams{
			TeamID: f.TeamID,
			Limit:  int64(f.Limit),
			Offset: int64(f.Offset),
		})
	} else {
		rows, err = r.q.ListTeamInvitesByStatus(ctx, gen.ListTeamInvitesByStatusParams{
			TeamID: f.TeamID,
			Status: string(f.Status),
			Limit:  int64(f.Limit),
			Offset: int64(f.Offset),
		})
	}
	if err != nil {
		return nil, err
	}

	out := make([]domain.Invite, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapInvite(row))
	}
	return out, nil
}

func (r *invitesRepo) CountInvites(ctx context.Context, f store.InviteFilter) (int, error) {
	var (
		n   int64
		err error
	)
	if f.Status == "" {
		n, err = r.q.CountTeamInvites(ctx, f.TeamID)
	} else {
		n, err = r.q.CountTeamInvitesByStatus(ctx, gen.CountTeamInvitesByStatusParams{
			TeamID: f.TeamID,
			Status: string(f.Status),
		})
	}
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *invitesRepo) ExpirePendingInvites(ctx context.Context, now time.Time) (int64, error) {
	return r.q.ExpirePendingInvites(ctx, gen.ExpirePendingInvitesParams{
		UpdatedAt: now.UTC(),
		Now:       now.UTC(),
	})
}
