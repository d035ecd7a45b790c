package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/pkg/authsdk"
	"github.com/aussiebroadwan/teamauth/pkg/httpx"
	"github.com/aussiebroadwan/teamauth/pkg/slogx"
)

type userCtxKey struct{}

func withUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// currentUser is the caller resolved by authn. Handlers behind authn can
// rely on it being set.
func currentUser(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(domain.User)
	return u, ok
}

// accessToken reads the bearer header, then the jwt cookie.
func accessToken(r *http.Request) string {
	if tok := httpx.BearerToken(r); tok != "" {
		return tok
	}
	if c, err := r.Cookie(accessCookie); err == nil {
		return c.Value
	}
	return ""
}

// authn admits requests carrying a valid access token for an active
// account whose password has not changed since the token was issued.
func authn(tokens *service.TokenService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := accessToken(r)
			if tok == "" {
				httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken, "access token required")
				return
			}

			user, err := tokens.Authenticate(r.Context(), tok)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			ctx := withUser(r.Context(), user)
			ctx = httpx.WithUserID(ctx, user.ID)
			ctx = slogx.WithUserID(ctx, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireTier admits callers whose role is at least min. Admins pass every
// gate. Must run after authn.
func requireTier(min domain.Tier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := currentUser(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken, "access token required")
				return
			}
			if !user.Role.AtLeast(min) {
				httpx.WriteError(w, http.StatusForbidden, authsdk.ErrorCodeInsufficientTier,
					"requires "+string(min)+" tier or above")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
