package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Admin operations. These require the admin tier.

// UpsertSubscription records the seats billing sold to userID.
func (s *Session) UpsertSubscription(ctx context.Context, userID string, req SubscriptionRequest) (*Subscription, error) {
	var out Subscription
	path := "/v1/admin/subscriptions/" + url.PathEscape(userID)
	if err := s.call(ctx, http.MethodPut, path, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSubscription reads the subscription of team owner userID.
func (s *Session) GetSubscription(ctx context.Context, userID string) (*Subscription, error) {
	var out Subscription
	path := "/v1/admin/subscriptions/" + url.PathEscape(userID)
	if err := s.call(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SweepInvites expires lapsed invitations now instead of waiting for the
// housekeeping interval.
func (s *Session) SweepInvites(ctx context.Context) (*SweepResponse, error) {
	var out SweepResponse
	if err := s.call(ctx, http.MethodPost, "/v1/admin/invites/sweep", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
