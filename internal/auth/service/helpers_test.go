package service_test

import (
	"context"
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/mail"
	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/teamauth/pkg/cryptox"
	"github.com/aussiebroadwan/teamauth/pkg/idx"
	"github.com/aussiebroadwan/teamauth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

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

// recordingMailer keeps every message it is handed. Setting fail makes
// Send return an error after recording.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	if m.fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

func (m *recordingMailer) last(t *testing.T, template string) mail.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Template == template {
			return m.sent[i]
		}
	}
	t.Fatalf("no %s message sent", template)
	return mail.Message{}
}

func (m *recordingMailer) count(template string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.sent {
		if msg.Template == template {
			n++
		}
	}
	return n
}

// tokenFrom pulls the raw token out of the link stored under key.
func tokenFrom(t *testing.T, msg mail.Message, key string) string {
	t.Helper()
	link, ok := msg.Data[key].(string)
	require.True(t, ok, "message has no %s", key)
	return path.Base(link)
}

type harness struct {
	store  *sqlite.Store
	clock  *fakeClock
	mail   *recordingMailer
	hasher *cryptox.Hasher
	tokens *service.TokenService
	auth   *service.AuthService
	invite *service.InviteService
	subs   *service.SubscriptionService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := &fakeClock{now: testStart}
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
	tokens := &service.TokenService{
		Keys:     keys,
		Store:    st,
		Clock:    clock,
		Issuer:   "teamauth-test",
		Audience: []string{"web"},
	}

	return &harness{
		store:  st,
		clock:  clock,
		mail:   mailer,
		hasher: hasher,
		tokens: tokens,
		auth: &service.AuthService{
			Store:  st,
			Tokens: tokens,
			Hasher: hasher,
			Mailer: mailer,
			Clock:  clock,
			Links:  links,
		},
		invite: &service.InviteService{
			Store:  st,
			Hasher: hasher,
			Mailer: mailer,
			Clock:  clock,
			Links:  links,
		},
		subs: &service.SubscriptionService{Store: st, Clock: clock},
	}
}

// verifiedUser stores an active, verified account with password
// "correct-horse".
func (h *harness) verifiedUser(t *testing.T, email string, role domain.Tier) domain.User {
	t.Helper()

	hash, err := h.hasher.Hash("correct-horse")
	require.NoError(t, err)

	now := h.clock.Now()
	u := domain.User{
		ID:              idx.New().String(),
		Email:           email,
		Name:            "User " + email,
		Company:         "Acme",
		PasswordHash:    hash,
		Role:            role,
		IsActive:        true,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, h.store.Users().CreateUser(context.Background(), u))
	return u
}

// teamOwner stores a business owner with a subscription of seats seats.
func (h *harness) teamOwner(t *testing.T, email string, plan domain.Tier, seats int) domain.User {
	t.Helper()

	owner := h.verifiedUser(t, email, plan)
	_, err := h.subs.Upsert(context.Background(), owner.ID, service.SubscriptionInput{
		Plan:       plan,
		SeatsTotal: seats,
	})
	require.NoError(t, err)
	return owner
}

// sendInvite creates an invite and returns it with its raw token.
func (h *harness) sendInvite(t *testing.T, owner domain.User, email string) (domain.Invite, string) {
	t.Helper()

	res, err := h.invite.Create(context.Background(), service.CreateInviteInput{
		Email:     email,
		InvitedBy: owner.ID,
		TeamID:    owner.ID,
	})
	require.NoError(t, err)
	return res.Invite, tokenFrom(t, h.mail.last(t, mail.TemplateTeamInvitation), "InviteURL")
}
