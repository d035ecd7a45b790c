package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/internal/auth/store"
	"github.com/aussiebroadwan/teamauth/pkg/httpx"
	"github.com/aussiebroadwan/teamauth/pkg/slogx"

	_ "github.com/aussiebroadwan/teamauth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Endpoint limits beyond the shared profiles.
var (
	registerLimit = httpx.PerHour(5)
	signInLimit   = httpx.RateLimitConfig{RequestsPerWindow: 10, Window: 15 * time.Minute, Burst: 10}
	emailLimit    = httpx.PerHour(3)
	passwordLimit = httpx.PerHour(5)
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	logger *slog.Logger
	system *SystemHandler

	// Limiters builds the per-route rate limiters. Defaults to in-memory
	// buckets.
	Limiters httpx.LimiterFactory
	Cookies  CookieConfig

	Tokens        *service.TokenService
	Auth          *service.AuthService
	Invites       *service.InviteService
	Subscriptions *service.SubscriptionService
	Housekeeping  *service.HousekeepingService
}

func NewRouter(keys KeySource, st store.Store, buildVersion string, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slogx.Discard()
	}
	r := &Router{
		Mux:    http.NewServeMux(),
		logger: logger,
		system: &SystemHandler{
			Keys:      keys,
			Store:     st,
			Version:   buildVersion,
			StartedAt: time.Now(),
		},
		Limiters: httpx.MemoryLimiters,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerInvites()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Teamauth Authentication Service API
//	@version		0.1.0
//	@description	Account registration, sign-in and team invitations for a multi-tenant SaaS.
//	@description
//	@description				Access and refresh tokens are signed JWTs; verify them with the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/teamauth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}". The jwt cookie is also accepted.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) byIP(cfg httpx.RateLimitConfig) httpx.Middleware {
	return httpx.ByIP(r.Limiters, cfg)
}

func (r *Router) byUser(cfg httpx.RateLimitConfig) httpx.Middleware {
	return httpx.ByUser(r.Limiters, cfg)
}

func (r *Router) authn() httpx.Middleware {
	return authn(r.Tokens)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Auth: r.Auth, Cookies: r.Cookies}

	// Credential guessing endpoints are limited per address.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister), r.byIP(registerLimit)))
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin), r.byIP(signInLimit)))
	r.Mux.Handle("POST /v1/auth/google",
		httpx.Chain(http.HandlerFunc(h.HandleGoogle), r.byIP(signInLimit)))

	r.Mux.Handle("POST /v1/auth/verify-email/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyEmail), r.byIP(httpx.PublicLimit)))
	r.Mux.Handle("POST /v1/auth/resend-verification",
		httpx.Chain(http.HandlerFunc(h.HandleResendVerification), r.byIP(emailLimit)))
	r.Mux.Handle("POST /v1/auth/forgot-password",
		httpx.Chain(http.HandlerFunc(h.HandleForgotPassword), r.byIP(emailLimit)))
	r.Mux.Handle("POST /v1/auth/reset-password/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword), r.byIP(passwordLimit)))

	r.Mux.Handle("POST /v1/auth/refresh-token",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh), r.byIP(httpx.ModerateLimit)))
	r.Mux.Handle("POST /v1/auth/check-email",
		httpx.Chain(http.HandlerFunc(h.HandleCheckEmail), r.byIP(httpx.ModerateLimit)))

	// Authenticated endpoints - limited per user
	r.Mux.Handle("POST /v1/auth/change-password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword), r.authn(), r.byUser(passwordLimit)))
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout), r.authn(), r.byUser(httpx.LenientLimit)))
	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe), r.authn(), r.byUser(httpx.LenientLimit)))
}

func (r *Router) registerInvites() {
	h := &InviteHandler{Invites: r.Invites}

	// Token holders - the raw token is the credential
	r.Mux.Handle("GET /v1/invites/token/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleGet), r.byIP(httpx.PublicLimit)))
	r.Mux.Handle("POST /v1/invites/token/{token}/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept), r.byIP(httpx.ModerateLimit)))
	r.Mux.Handle("POST /v1/invites/token/{token}/decline",
		httpx.Chain(http.HandlerFunc(h.HandleDecline), r.byIP(httpx.ModerateLimit)))

	// Team management
	r.Mux.Handle("GET /v1/invites/can-invite",
		httpx.Chain(http.HandlerFunc(h.HandleCanInvite), r.authn(), r.byUser(httpx.LenientLimit)))
	r.Mux.Handle("GET /v1/invites/team",
		httpx.Chain(http.HandlerFunc(h.HandleList), r.authn(), r.byUser(httpx.LenientLimit)))
	r.Mux.Handle("POST /v1/invites",
		httpx.Chain(http.HandlerFunc(h.HandleCreate), r.authn(), r.byUser(httpx.ModerateLimit)))
	r.Mux.Handle("POST /v1/invites/{id}/resend",
		httpx.Chain(http.HandlerFunc(h.HandleResend), r.authn(), r.byUser(httpx.StrictLimit)))
	r.Mux.Handle("DELETE /v1/invites/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleCancel), r.authn(), r.byUser(httpx.ModerateLimit)))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Subscriptions: r.Subscriptions, Housekeeping: r.Housekeeping}
	admin := requireTier(domain.TierAdmin)

	r.Mux.Handle("GET /v1/admin/subscriptions/{userID}",
		httpx.Chain(http.HandlerFunc(h.HandleGetSubscription), r.authn(), admin, r.byUser(httpx.LenientLimit)))
	r.Mux.Handle("PUT /v1/admin/subscriptions/{userID}",
		httpx.Chain(http.HandlerFunc(h.HandleUpsertSubscription), r.authn(), admin, r.byUser(httpx.ModerateLimit)))
	r.Mux.Handle("POST /v1/admin/invites/sweep",
		httpx.Chain(http.HandlerFunc(h.HandleSweep), r.authn(), admin, r.byUser(httpx.StrictLimit)))
}

func (r *Router) registerSystem() {
	// Monitoring and key discovery - polled often
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(http.HandlerFunc(r.system.HandleJWKS), r.byIP(httpx.PublicLimit)))
	r.Mux.Handle("GET /livez",
		httpx.Chain(http.HandlerFunc(r.system.HandleLivez), r.byIP(httpx.LenientLimit)))
	r.Mux.Handle("GET /readyz",
		httpx.Chain(http.HandlerFunc(r.system.HandleReadyz), r.byIP(httpx.LenientLimit)))
}
