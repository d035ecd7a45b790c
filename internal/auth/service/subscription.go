package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/store"
	"github.com/aussiebroadwan/teamauth/pkg/slogx"
)

// SubscriptionService records the seat allowance billing has sold to a
// team owner. Payment itself happens elsewhere.
type SubscriptionService struct {
	Store store.Store
	Clock Clock
}

type SubscriptionInput struct {
	Plan       domain.Tier
	Status     domain.SubscriptionStatus // defaults to active
	SeatsTotal int                       // defaults to 1
	SeatsUsed  int                       // defaults to 1
	StartDate  *time.Time
	EndDate    *time.Time
	AutoRenew  bool
}

// Upsert writes userID's subscription, keeping the original creation time
// when one already exists.
func (s *SubscriptionService) Upsert(ctx context.Context, userID string, in SubscriptionInput) (domain.Subscription, error) {
	now := nowFrom(s.Clock)

	if !in.Plan.Grantable() {
		return domain.Subscription{}, fmt.Errorf("%w: plan %q", ErrValidation, in.Plan)
	}
	if in.Status == "" {
		in.Status = domain.SubscriptionActive
	}
	if !in.Status.Valid() {
		return domain.Subscription{}, fmt.Errorf("%w: status %q", ErrValidation, in.Status)
	}
	if in.SeatsTotal == 0 {
		in.SeatsTotal = 1
	}
	if in.SeatsUsed == 0 {
		in.SeatsUsed = 1
	}
	if in.SeatsTotal < 0 || in.SeatsUsed < 0 {
		return domain.Subscription{}, fmt.Errorf("%w: seat counts must not be negative", ErrValidation)
	}

	var sub domain.Subscription
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			return notFoundAs(err, ErrNotFound)
		}

		sub = domain.Subscription{
			UserID:     userID,
			Plan:       in.Plan,
			Status:     in.Status,
			SeatsTotal: in.SeatsTotal,
			SeatsUsed:  in.SeatsUsed,
			StartDate:  now,
			EndDate:    in.EndDate,
			AutoRenew:  in.AutoRenew,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if in.StartDate != nil {
			sub.StartDate = in.StartDate.UTC()
		}

		prev, err := tx.Subscriptions().GetSubscriptionByUserID(ctx, userID)
		switch {
		case err == nil:
			sub.CreatedAt = prev.CreatedAt
			if in.StartDate == nil {
				sub.StartDate = prev.StartDate
			}
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		return tx.Subscriptions().UpsertSubscription(ctx, sub)
	})
	if err != nil {
		return domain.Subscription{}, err
	}

	slogx.FromContext(ctx).Info("subscription updated",
		slog.String("user_id", userID),
		slog.String("plan", string(sub.Plan)),
		slog.Int("seats_total", sub.SeatsTotal),
	)
	return sub, nil
}

func (s *SubscriptionService) Get(ctx context.Context, userID string) (domain.Subscription, error) {
	sub, err := s.Store.Subscriptions().GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		return domain.Subscription{}, notFoundAs(err, ErrNoSubscription)
	}
	return sub, nil
}
