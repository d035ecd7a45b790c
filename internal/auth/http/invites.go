package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/pkg/authsdk"
	"github.com/aussiebroadwan/teamauth/pkg/httpx"
)

// InviteHandler serves /v1/invites. Token routes are public; the rest act
// for the signed-in user's team.
type InviteHandler struct {
	Invites *service.InviteService
}

// HandleCreate godoc
//
//	@Summary		Invite someone to the team
//	@Description	The team is the caller's parent account, or the caller when they own it. Seats count members plus pending invites.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.CreateInviteRequest	true	"Invitee"
//	@Success		201		{object}	authsdk.InviteResponse		"The pending invite"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Validation failed"
//	@Failure		403		{object}	authsdk.ErrorResponse		"Plan not eligible, no subscription or seat limit reached"
//	@Failure		409		{object}	authsdk.ErrorResponse		"Already a member or already invited"
//	@Router			/v1/invites [post].
func (h *InviteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	var req authsdk.CreateInviteRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.Invites.Create(r.Context(), service.CreateInviteInput{
		Email:     req.Email,
		InvitedBy: user.ID,
		TeamID:    user.TeamID(),
		Role:      domain.Tier(req.Role),
		Message:   req.Message,
	})
	if err != nil {
		writeInviteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toInviteResponse(res))
}

// HandleResend godoc
//
//	@Summary		Resend an invitation
//	@Description	Issues a fresh link. The previous link stops working.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Invite ID"
//	@Success		200	{object}	authsdk.InviteResponse	"The updated invite"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not the inviter or team owner"
//	@Failure		409	{object}	authsdk.ErrorResponse	"No longer pending"
//	@Router			/v1/invites/{id}/resend [post].
func (h *InviteHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	res, err := h.Invites.Resend(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeInviteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInviteResponse(res))
}

// HandleCancel godoc
//
//	@Summary		Cancel an invitation
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Invite ID"
//	@Success		200	{object}	authsdk.InviteResponse	"The cancelled invite"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not the inviter or team owner"
//	@Failure		409	{object}	authsdk.ErrorResponse	"No longer pending"
//	@Router			/v1/invites/{id} [delete].
func (h *InviteHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	inv, err := h.Invites.Cancel(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeInviteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.InviteResponse{Invite: toInvite(inv)})
}

// HandleGet godoc
//
//	@Summary		Look up an invitation
//	@Description	What the invitee sees before accepting. A lapsed invite is marked expired.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	path		string							true	"Invite token"
//	@Success		200		{object}	authsdk.InviteDetailsResponse	"Invite, inviter and team"
//	@Failure		404		{object}	authsdk.ErrorResponse			"Unknown token"
//	@Failure		409		{object}	authsdk.ErrorResponse			"Already accepted or declined"
//	@Failure		410		{object}	authsdk.ErrorResponse			"Expired"
//	@Router			/v1/invites/token/{token} [get].
func (h *InviteHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	d, err := h.Invites.GetByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		writeInviteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.InviteDetailsResponse{
		Invite:  toInvite(d.Invite),
		Inviter: toUser(d.Inviter),
		Team:    toUser(d.Team),
	})
}

// HandleAccept godoc
//
//	@Summary		Accept an invitation
//	@Description	Joins the team. When the invited email has no account, name and password create one, already verified.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string							true	"Invite token"
//	@Param			request	body		authsdk.AcceptInviteRequest		false	"New account details"
//	@Success		200		{object}	authsdk.AcceptInviteResponse	"The member and team"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Password required"
//	@Failure		409		{object}	authsdk.ErrorResponse			"Already processed or already on a team"
//	@Failure		410		{object}	authsdk.ErrorResponse			"Expired"
//	@Router			/v1/invites/token/{token}/accept [post].
func (h *InviteHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req authsdk.AcceptInviteRequest
	if !decode(w, r, &req) {
		return
	}

	acc, err := h.Invites.Accept(r.Context(), r.PathValue("token"), service.AcceptInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeInviteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.AcceptInviteResponse{
		User:      toUser(acc.User),
		Team:      toUser(acc.Team),
		IsNewUser: acc.IsNewUser,
		Warnings:  acc.Warnings,
	})
}

// HandleDecline godoc
//
//	@Summary		Decline an invitation
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	path		string					true	"Invite token"
//	@Success		200		{object}	authsdk.InviteResponse	"The declined invite"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Already processed"
//	@Failure		410		{object}	authsdk.ErrorResponse	"Expired"
//	@Router			/v1/invites/token/{token}/decline [post].
func (h *InviteHandler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	res, err := h.Invites.Decline(r.Context(), r.PathValue("token"))
	if err != nil {
		writeInviteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInviteResponse(res))
}

// HandleList godoc
//
//	@Summary		List team invitations
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			status	query		string						false	"pending, accepted, declined or expired"
//	@Param			limit	query		int							false	"Page size (default 20, max 100)"
//	@Param			skip	query		int							false	"Offset"
//	@Success		200		{object}	authsdk.InviteListResponse	"Newest first"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Bad filter"
//	@Router			/v1/invites/team [get].
func (h *InviteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())
	q := r.URL.Query()

	limit, ok := intParam(w, q.Get("limit"), "limit")
	if !ok {
		return
	}
	skip, ok := intParam(w, q.Get("skip"), "skip")
	if !ok {
		return
	}

	page, err := h.Invites.ListForTeam(r.Context(), user.TeamID(), service.ListOptions{
		Status: domain.InviteStatus(q.Get("status")),
		Limit:  limit,
		Skip:   skip,
	})
	if err != nil {
		writeInviteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.InviteListResponse{
		Invites: toInvites(page.Invites),
		Total:   page.Total,
		Limit:   page.Limit,
		Skip:    page.Skip,
	})
}

// HandleCanInvite godoc
//
//	@Summary		Invitation eligibility
//	@Description	Whether the caller's role may invite, with the team's seat usage.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.CanInviteResponse	"Eligibility and seats"
//	@Router			/v1/invites/can-invite [get].
func (h *InviteHandler) HandleCanInvite(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	e, err := h.Invites.CanInvite(r.Context(), user)
	if err != nil {
		writeInviteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEligibility(e))
}

func intParam(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeAPIError(w, &authsdk.APIError{
			StatusCode:  http.StatusBadRequest,
			Code:        authsdk.ErrorCodeValidation,
			Description: "request validation failed",
			Fields:      map[string]string{name: "must be a non-negative integer"},
		})
		return 0, false
	}
	return n, true
}
