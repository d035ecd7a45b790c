package authsdk

import (
	"context"
	"net/http"
)

// Invitee operations. The raw token from the invitation email is the only
// credential these need.

func (c *SDKClient) GetInvite(ctx context.Context, token string) (*InviteDetailsResponse, error) {
	var out InviteDetailsResponse
	if err := c.call(ctx, http.MethodGet, tokenPath("/v1/invites/token", token), nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptInvite joins the team, creating the account when the invited email
// has none.
func (c *SDKClient) AcceptInvite(ctx context.Context, token string, req AcceptInviteRequest) (*AcceptInviteResponse, error) {
	var out AcceptInviteResponse
	if err := c.call(ctx, http.MethodPost, tokenPath("/v1/invites/token", token)+"/accept", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) DeclineInvite(ctx context.Context, token string) (*InviteResponse, error) {
	var out InviteResponse
	if err := c.call(ctx, http.MethodPost, tokenPath("/v1/invites/token", token)+"/decline", nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
