package sqlite

import (
	"context"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/store/drivers/sqlite/gen"
)

type subscriptionsRepo struct {
	q *gen.Queries
}

func (r *subscriptionsRepo) GetSubscriptionByUserID(ctx context.Context, userID string) (domain.Subscription, error) {
	row, err := r.q.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		return domain.Subscription{}, mapNotFound(err)
	}
	return mapSubscription(row), nil
}

func (r *subscriptionsRepo) UpsertSubscription(ctx context.Context, s domain.Subscription) error {
	return r.q.UpsertSubscription(ctx, gen.UpsertSubscriptionParams{
		UserID:     s.UserID,
		Plan:       string(s.Plan),
		Status:     string(s.Status),
		SeatsTotal: int64(s.SeatsTotal),
		SeatsUsed:  int64(s.SeatsUsed),
		StartDate:  s.StartDate.UTC(),
		EndDate:    mapOptionalTime(s.EndDate),
		AutoRenew:  s.AutoRenew,
		CreatedAt:  s.CreatedAt.UTC(),
		UpdatedAt:  s.UpdatedAt.UTC(),
	})
}
