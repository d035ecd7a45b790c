package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Team invitation management for owners and members.

// CreateInvite invites email into the caller's team.
func (s *Session) CreateInvite(ctx context.Context, req CreateInviteRequest) (*InviteResponse, error) {
	var out InviteResponse
	if err := s.call(ctx, http.MethodPost, "/v1/invites", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendInvite mails a pending invitation again with a fresh link.
func (s *Session) ResendInvite(ctx context.Context, inviteID string) (*InviteResponse, error) {
	var out InviteResponse
	path := "/v1/invites/" + url.PathEscape(inviteID) + "/resend"
	if err := s.call(ctx, http.MethodPost, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelInvite withdraws a pending invitation.
func (s *Session) CancelInvite(ctx context.Context, inviteID string) (*InviteResponse, error) {
	var out InviteResponse
	path := "/v1/invites/" + url.PathEscape(inviteID)
	if err := s.call(ctx, http.MethodDelete, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTeamInvites pages through the caller's team invitations, newest
// first.
func (s *Session) ListTeamInvites(ctx context.Context, opts ListInvitesOptions) (*InviteListResponse, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Skip > 0 {
		q.Set("skip", strconv.Itoa(opts.Skip))
	}
	path := "/v1/invites/team"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out InviteListResponse
	if err := s.call(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CanInvite reports whether the caller may invite and how many seats
// remain.
func (s *Session) CanInvite(ctx context.Context) (*CanInviteResponse, error) {
	var out CanInviteResponse
	if err := s.call(ctx, http.MethodGet, "/v1/invites/can-invite", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
