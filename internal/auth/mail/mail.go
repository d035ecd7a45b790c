// Package mail delivers the transactional emails the auth service sends.
// Callers treat delivery as best effort: a failed Send never undoes the
// state change that triggered it.
package mail

import (
	"context"
	"errors"
)

// Template keys.
const (
	TemplateEmailVerification   = "email-verification"
	TemplatePasswordReset       = "password-reset"
	TemplateTeamInvitation      = "team-invitation"
	TemplateTeamWelcomeNew      = "team-welcome-new"
	TemplateTeamWelcomeExisting = "team-welcome-existing"
	TemplateTeamMemberJoined    = "team-member-joined"
	TemplateTeamInviteDeclined  = "team-invite-declined"
)

var ErrUnknownTemplate = errors.New("mail: unknown template")

type Message struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Branding is merged into every template's data under "Brand".
type Branding struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportEmail   string
	FrontendURL    string
}
