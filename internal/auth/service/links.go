package service

import (
	"net/url"
	"strings"
)

// Links builds the frontend URLs embedded in outgoing emails.
type Links struct {
	FrontendURL string
}

func (l Links) join(parts ...string) string {
	base := strings.TrimRight(l.FrontendURL, "/")
	for _, p := range parts {
		base += "/" + url.PathEscape(p)
	}
	return base
}

func (l Links) VerifyEmail(token string) string   { return l.join("verify-email", token) }
func (l Links) ResetPassword(token string) string { return l.join("reset-password", token) }
func (l Links) AcceptInvite(token string) string  { return l.join("invite", "accept", token) }
func (l Links) Dashboard() string                 { return l.join("dashboard") }
func (l Links) Team() string                      { return l.join("team") }
