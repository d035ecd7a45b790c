package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	authhttp "github.com/aussiebroadwan/teamauth/internal/auth/http"
	"github.com/aussiebroadwan/teamauth/internal/auth/mail"
	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/teamauth/pkg/authsdk"
	"github.com/aussiebroadwan/teamauth/pkg/cryptox"
	"github.com/aussiebroadwan/teamauth/pkg/httpx"
	"github.com/aussiebroadwan/teamauth/pkg/idx"
	"github.com/aussiebroadwan/teamauth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// token returns the raw token from the newest template message.
func (m *recordingMailer) token(t *testing.T, template, key string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Template == template {
			link, ok := m.sent[i].Data[key].(string)
			require.True(t, ok)
			return path.Base(link)
		}
	}
	t.Fatalf("no %s message sent", template)
	return ""
}

type server struct {
	url    string
	client *authsdk.SDKClient
	clock  *fakeClock
	mail   *recordingMailer
	hasher *cryptox.Hasher
	store  *sqlite.Store
}

func newServer(t *testing.T, limiters httpx.LimiterFactory) *server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	mailer := &recordingMailer{}

	hasher, err := cryptox.NewHasher(cryptox.Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		KeyLength:   32,
		SaltLength:  16,
	}, "test-pepper")
	require.NoError(t, err)

	keys, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		Issuer:   "teamauth-test",
		Audience: []string{"web"},
		Now:      clock.Now,
	})
	require.NoError(t, err)

	links := service.Links{FrontendURL: "https://app.example.com"}
	tokens := &service.TokenService{Keys: keys, Store: st, Clock: clock, Issuer: "teamauth-test", Audience: []string{"web"}}
	invites := &service.InviteService{Store: st, Hasher: hasher, Mailer: mailer, Clock: clock, Links: links}

	router := authhttp.NewRouter(keys, st, "test", nil)
	router.Limiters = limiters
	router.Tokens = tokens
	router.Auth = &service.AuthService{Store: st, Tokens: tokens, Hasher: hasher, Mailer: mailer, Clock: clock, Links: links}
	router.Invites = invites
	router.Subscriptions = &service.SubscriptionService{Store: st, Clock: clock}
	router.Housekeeping = service.NewHousekeepingService(st, invites, clock, nil, time.Hour)
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &server{
		url:    srv.URL,
		client: authsdk.NewSDKClient(srv.URL),
		clock:  clock,
		mail:   mailer,
		hasher: hasher,
		store:  st,
	}
}

// account stores a verified user with password "correct-horse".
func (s *server) account(t *testing.T, email string, role domain.Tier) domain.User {
	t.Helper()

	hash, err := s.hasher.Hash("correct-horse")
	require.NoError(t, err)
	now := s.clock.Now()
	u := domain.User{
		ID:              idx.New().String(),
		Email:           email,
		Name:            "User " + email,
		PasswordHash:    hash,
		Role:            role,
		IsActive:        true,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, s.store.Users().CreateUser(context.Background(), u))
	return u
}

func (s *server) signIn(t *testing.T, email string) *authsdk.Session {
	t.Helper()
	sess, err := s.client.AuthenticateWithPassword(context.Background(), email, "correct-horse")
	require.NoError(t, err)
	return sess
}

// businessTeam creates an owner whose subscription an admin recorded.
func (s *server) businessTeam(t *testing.T, email string, seats int) (domain.User, *authsdk.Session) {
	t.Helper()

	owner := s.account(t, email, domain.TierBusiness)
	s.account(t, "admin-"+email, domain.TierAdmin)
	admin := s.signIn(t, "admin-"+email)

	_, err := admin.UpsertSubscription(context.Background(), owner.ID, authsdk.SubscriptionRequest{
		Plan:       "business",
		SeatsTotal: seats,
	})
	require.NoError(t, err)
	return owner, s.signIn(t, email)
}

func requireCode(t *testing.T, err error, status int, code string) {
	t.Helper()
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr), "want APIError, got %v", err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}

func TestRegisterVerifyAndSignIn(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)
	ctx := context.Background()

	reg, err := s.client.Register(ctx, authsdk.RegisterRequest{
		Email:    "Alice@Example.com",
		Password: "correct-horse",
		Name:     "Alice",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", reg.User.Email)
	require.False(t, reg.User.IsEmailVerified)

	_, err = s.client.Login(ctx, authsdk.LoginRequest{Email: "alice@example.com", Password: "correct-horse"})
	requireCode(t, err, http.StatusForbidden, authsdk.ErrorCodeEmailNotVerified)

	verified, err := s.client.VerifyEmail(ctx, s.mail.token(t, mail.TemplateEmailVerification, "VerificationURL"))
	require.NoError(t, err)
	require.True(t, verified.User.IsEmailVerified)
	require.NotEmpty(t, verified.Tokens.AccessToken)

	sess := s.signIn(t, "alice@example.com")
	me, err := sess.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, me.ID)

	exists, err := s.client.CheckEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestRequestErrors(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)
	ctx := context.Background()
	s.account(t, "bob@example.com", domain.TierFree)

	_, err := s.client.Register(ctx, authsdk.RegisterRequest{Email: "not-an-email", Password: "short"})
	requireCode(t, err, http.StatusBadRequest, authsdk.ErrorCodeValidation)
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Contains(t, apiErr.Fields, "email")
	require.Contains(t, apiErr.Fields, "password")

	_, err = s.client.Register(ctx, authsdk.RegisterRequest{Email: "bob@example.com", Password: "correct-horse"})
	requireCode(t, err, http.StatusConflict, authsdk.ErrorCodeConflict)

	_, err = s.client.Login(ctx, authsdk.LoginRequest{Email: "bob@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)

	_, err = s.client.VerifyEmail(ctx, "bogus")
	requireCode(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidOrExpired)

	resp, err := http.Post(s.url+"/v1/auth/login", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthenticatedRoutesNeedToken(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)

	for _, target := range []string{"/v1/auth/me", "/v1/invites/team", "/v1/invites/can-invite"} {
		resp, err := http.Get(s.url + target)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, target)
	}

	req, err := http.NewRequest(http.MethodGet, s.url+"/v1/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body authsdk.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, authsdk.ErrorCodeInvalidToken, body.Error)
}

func TestSessionCookies(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)
	s.account(t, "carol@example.com", domain.TierFree)

	resp, err := http.Post(s.url+"/v1/auth/login", "application/json",
		strings.NewReader(`{"email":"carol@example.com","password":"correct-horse"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookies := map[string]*http.Cookie{}
	for _, c := range resp.Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, "jwt")
	require.Contains(t, cookies, "refreshToken")
	require.True(t, cookies["jwt"].HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, cookies["refreshToken"].SameSite)

	// The jwt cookie authenticates on its own.
	req, err := http.NewRequest(http.MethodGet, s.url+"/v1/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(cookies["jwt"])
	me, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	me.Body.Close()
	require.Equal(t, http.StatusOK, me.StatusCode)

	// So does the refresh cookie for rotation, once.
	refresh := func() int {
		req, err := http.NewRequest(http.MethodPost, s.url+"/v1/auth/refresh-token", nil)
		require.NoError(t, err)
		req.AddCookie(cookies["refreshToken"])
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	require.Equal(t, http.StatusOK, refresh())
	require.Equal(t, http.StatusUnauthorized, refresh())
}

func TestLogoutEverywhere(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)
	ctx := context.Background()
	s.account(t, "busy@example.com", domain.TierFree)

	laptop := s.signIn(t, "busy@example.com")
	phone := s.signIn(t, "busy@example.com")
	phoneRefresh := phone.RefreshToken()

	require.NoError(t, laptop.LogoutEverywhere(ctx))

	_, err := s.client.Refresh(ctx, phoneRefresh)
	require.Equal(t, http.StatusUnauthorized, authsdk.StatusCode(err))
}

func TestChangePasswordInvalidatesOtherSessions(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)
	ctx := context.Background()
	s.account(t, "dave@example.com", domain.TierFree)

	other := s.signIn(t, "dave@example.com")
	sess := s.signIn(t, "dave@example.com")

	// Tokens carry second precision; step past the issue second.
	s.clock.Advance(time.Second)
	require.NoError(t, sess.ChangePassword(ctx, "correct-horse", "battery-staple"))

	_, err := sess.Me(ctx)
	require.NoError(t, err)

	_, err = other.Me(ctx)
	requireCode(t, err, http.StatusUnauthorized, authsdk.ErrorCodePasswordChanged)
}

func TestInviteLifecycleOverHTTP(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)
	ctx := context.Background()
	_, owner := s.businessTeam(t, "owner@example.com", 3)

	elig, err := owner.CanInvite(ctx)
	require.NoError(t, err)
	require.True(t, elig.CanInvite)
	require.Equal(t, 3, elig.SeatsAvailable)

	created, err := owner.CreateInvite(ctx, authsdk.CreateInviteRequest{Email: "new@example.com", Message: "join us"})
	require.NoError(t, err)
	require.Equal(t, "pending", created.Invite.Status)
	require.Equal(t, "business", created.Invite.Role)

	_, err = owner.CreateInvite(ctx, authsdk.CreateInviteRequest{Email: "new@example.com"})
	require.ErrorIs(t, err, authsdk.ErrDuplicatePending)

	token := s.mail.token(t, mail.TemplateTeamInvitation, "InviteURL")
	details, err := s.client.GetInvite(ctx, token)
	require.NoError(t, err)
	require.Equal(t, created.Invite.ID, details.Invite.ID)
	require.Equal(t, "owner@example.com", details.Team.Email)

	_, err = s.client.AcceptInvite(ctx, token, authsdk.AcceptInviteRequest{Name: "Newbie"})
	requireCode(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest)

	acc, err := s.client.AcceptInvite(ctx, token, authsdk.AcceptInviteRequest{Name: "Newbie", Password: "battery-staple"})
	require.NoError(t, err)
	require.True(t, acc.IsNewUser)
	require.Equal(t, acc.Team.ID, acc.User.ParentAccount)
	require.Contains(t, acc.Team.ChildAccounts, acc.User.ID)

	_, err = s.client.AcceptInvite(ctx, token, authsdk.AcceptInviteRequest{})
	require.ErrorIs(t, err, authsdk.ErrAlreadyProcessed)

	page, err := owner.ListTeamInvites(ctx, authsdk.ListInvitesOptions{Status: "accepted"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, created.Invite.ID, page.Invites[0].ID)

	// The new member can sign in straight away with the password they chose.
	member, err := s.client.AuthenticateWithPassword(ctx, "new@example.com", "battery-staple")
	require.NoError(t, err)
	me, err := member.Me(ctx)
	require.NoError(t, err)
	require.True(t, me.IsEmailVerified)
}

func TestInviteExpiryIsGone(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)
	ctx := context.Background()
	_, owner := s.businessTeam(t, "owner@example.com", 5)

	created, err := owner.CreateInvite(ctx, authsdk.CreateInviteRequest{Email: "late@example.com"})
	require.NoError(t, err)
	token := s.mail.token(t, mail.TemplateTeamInvitation, "InviteURL")

	s.clock.Advance(service.DefaultInviteTTL)

	_, err = s.client.GetInvite(ctx, token)
	require.ErrorIs(t, err, authsdk.ErrInviteExpired)
	_, err = s.client.DeclineInvite(ctx, token)
	require.ErrorIs(t, err, authsdk.ErrInviteExpired)

	// The owner's access token lapsed with the clock; sign in again. The
	// lookup above already marked the invite expired, so resend is refused.
	owner = s.signIn(t, "owner@example.com")
	_, err = owner.ResendInvite(ctx, created.Invite.ID)
	require.ErrorIs(t, err, authsdk.ErrInviteExpired)
}

func TestInviteCancelAndDecline(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)
	ctx := context.Background()
	_, owner := s.businessTeam(t, "owner@example.com", 5)

	first, err := owner.CreateInvite(ctx, authsdk.CreateInviteRequest{Email: "one@example.com"})
	require.NoError(t, err)

	s.account(t, "stranger@example.com", domain.TierBusiness)
	stranger := s.signIn(t, "stranger@example.com")
	_, err = stranger.CancelInvite(ctx, first.Invite.ID)
	require.ErrorIs(t, err, authsdk.ErrForbidden)

	cancelled, err := owner.CancelInvite(ctx, first.Invite.ID)
	require.NoError(t, err)
	require.Equal(t, "expired", cancelled.Invite.Status)
	require.NotNil(t, cancelled.Invite.CancelledAt)

	_, err = owner.CancelInvite(ctx, first.Invite.ID)
	require.ErrorIs(t, err, authsdk.ErrInviteExpired)

	_, err = owner.CreateInvite(ctx, authsdk.CreateInviteRequest{Email: "two@example.com"})
	require.NoError(t, err)
	declined, err := s.client.DeclineInvite(ctx, s.mail.token(t, mail.TemplateTeamInvitation, "InviteURL"))
	require.NoError(t, err)
	require.Equal(t, "declined", declined.Invite.Status)
}

func TestSeatLimitOverHTTP(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)
	ctx := context.Background()
	_, owner := s.businessTeam(t, "owner@example.com", 2)

	_, err := owner.CreateInvite(ctx, authsdk.CreateInviteRequest{Email: "a@example.com"})
	require.NoError(t, err)
	_, err = owner.CreateInvite(ctx, authsdk.CreateInviteRequest{Email: "b@example.com"})
	require.NoError(t, err)
	_, err = owner.CreateInvite(ctx, authsdk.CreateInviteRequest{Email: "c@example.com"})
	require.ErrorIs(t, err, authsdk.ErrSeatLimitReached)
	require.Equal(t, http.StatusForbidden, authsdk.StatusCode(err))
}

func TestAdminRoutesRequireAdminTier(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)
	ctx := context.Background()
	owner := s.account(t, "owner@example.com", domain.TierEnterprise)
	sess := s.signIn(t, "owner@example.com")

	_, err := sess.UpsertSubscription(ctx, owner.ID, authsdk.SubscriptionRequest{Plan: "business", SeatsTotal: 50})
	requireCode(t, err, http.StatusForbidden, authsdk.ErrorCodeInsufficientTier)

	_, err = sess.SweepInvites(ctx)
	requireCode(t, err, http.StatusForbidden, authsdk.ErrorCodeInsufficientTier)

	s.account(t, "root@example.com", domain.TierAdmin)
	admin := s.signIn(t, "root@example.com")

	_, err = admin.UpsertSubscription(ctx, "missing", authsdk.SubscriptionRequest{Plan: "business"})
	require.ErrorIs(t, err, authsdk.ErrNotFound)

	_, err = admin.GetSubscription(ctx, owner.ID)
	requireCode(t, err, http.StatusForbidden, authsdk.ErrorCodeNoSubscription)

	sub, err := admin.UpsertSubscription(ctx, owner.ID, authsdk.SubscriptionRequest{Plan: "business", SeatsTotal: 50})
	require.NoError(t, err)
	require.Equal(t, 50, sub.SeatsTotal)
	require.Equal(t, "active", sub.Status)

	got, err := admin.GetSubscription(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, sub.SeatsTotal, got.SeatsTotal)
	require.Equal(t, "business", got.Plan)
}

func TestAdminSweep(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)
	ctx := context.Background()
	_, owner := s.businessTeam(t, "owner@example.com", 5)

	_, err := owner.CreateInvite(ctx, authsdk.CreateInviteRequest{Email: "a@example.com"})
	require.NoError(t, err)

	s.account(t, "root@example.com", domain.TierAdmin)
	s.clock.Advance(service.DefaultInviteTTL + time.Minute)

	admin := s.signIn(t, "root@example.com")
	res, err := admin.SweepInvites(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), res.ExpiredInvites)
}

func TestRegisterRateLimited(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.MemoryLimiters)
	ctx := context.Background()

	var err error
	for i := range 6 {
		_, err = s.client.Register(ctx, authsdk.RegisterRequest{
			Email:    "user" + string(rune('a'+i)) + "@example.com",
			Password: "correct-horse",
		})
		if i < 5 {
			require.NoError(t, err)
		}
	}
	requireCode(t, err, http.StatusTooManyRequests, authsdk.ErrorCodeRateLimited)
}

func TestProbesAndJWKS(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.NoLimits)
	ctx := context.Background()

	live, err := s.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := s.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Signer)

	jwks, err := s.client.GetJWKS(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, jwks.Keys)
}
