package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/pkg/httpx"
)

const (
	accessCookie  = "jwt"
	refreshCookie = "refreshToken"
)

// CookieConfig controls the session cookies set alongside token bodies.
type CookieConfig struct {
	Secure bool
	Domain string
}

func (c CookieConfig) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (c CookieConfig) setSession(w http.ResponseWriter, pair domain.TokenPair) {
	http.SetCookie(w, c.cookie(accessCookie, pair.AccessToken, pair.AccessExpiresAt))
	http.SetCookie(w, c.cookie(refreshCookie, pair.RefreshToken, pair.RefreshExpiresAt))
}

func (c CookieConfig) clearSession(w http.ResponseWriter) {
	for _, name := range []string{accessCookie, refreshCookie} {
		ck := c.cookie(name, "", time.Unix(0, 0))
		ck.MaxAge = -1
		http.SetCookie(w, ck)
	}
}

// refreshTokenFrom prefers an explicit body value, then the cookie, then
// a bearer header.
func refreshTokenFrom(r *http.Request, body string) string {
	if body != "" {
		return body
	}
	if ck, err := r.Cookie(refreshCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	return httpx.BearerToken(r)
}
