package http

import (
	"net/http"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/pkg/authsdk"
	"github.com/aussiebroadwan/teamauth/pkg/httpx"
)

// AdminHandler serves /v1/admin. Every route requires the admin tier.
type AdminHandler struct {
	Subscriptions *service.SubscriptionService
	Housekeeping  *service.HousekeepingService
}

// HandleUpsertSubscription godoc
//
//	@Summary		Record a subscription
//	@Description	Creates or replaces the plan and seat allowance of a team owner.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			userID	path		string						true	"Team owner ID"
//	@Param			request	body		authsdk.SubscriptionRequest	true	"Subscription"
//	@Success		200		{object}	authsdk.Subscription		"The stored subscription"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Validation failed"
//	@Failure		403		{object}	authsdk.ErrorResponse		"Not an admin"
//	@Failure		404		{object}	authsdk.ErrorResponse		"Unknown user"
//	@Router			/v1/admin/subscriptions/{userID} [put].
func (h *AdminHandler) HandleUpsertSubscription(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SubscriptionRequest
	if !decode(w, r, &req) {
		return
	}

	sub, err := h.Subscriptions.Upsert(r.Context(), r.PathValue("userID"), service.SubscriptionInput{
		Plan:       domain.Tier(req.Plan),
		Status:     domain.SubscriptionStatus(req.Status),
		SeatsTotal: req.SeatsTotal,
		SeatsUsed:  req.SeatsUsed,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		AutoRenew:  req.AutoRenew,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSubscription(sub))
}

// HandleGetSubscription godoc
//
//	@Summary		Read a subscription
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			userID	path		string					true	"Team owner ID"
//	@Success		200		{object}	authsdk.Subscription	"The subscription"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Not an admin, or no subscription"
//	@Router			/v1/admin/subscriptions/{userID} [get].
func (h *AdminHandler) HandleGetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.Subscriptions.Get(r.Context(), r.PathValue("userID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSubscription(sub))
}

// HandleSweep godoc
//
//	@Summary		Expire lapsed invitations now
//	@Description	Runs one housekeeping pass: lapsed pending invites become expired and dead refresh tokens are deleted.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.SweepResponse	"Counts"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not an admin"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Sweep failed"
//	@Router			/v1/admin/invites/sweep [post].
func (h *AdminHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	res, err := h.Housekeeping.Sweep(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.SweepResponse{
		ExpiredInvites:       res.ExpiredInvites,
		DeletedRefreshTokens: res.DeletedRefreshTokens,
	})
}
