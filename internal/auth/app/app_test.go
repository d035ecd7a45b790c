package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestParseEnvDefaults(t *testing.T) {
	cfg, err := ParseEnv()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "teamauth", cfg.Issuer)
	require.Equal(t, "EdDSA", cfg.Algorithm)
	require.Equal(t, time.Hour, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.InviteTTL)
	require.True(t, cfg.CookieSecure)
	require.True(t, cfg.RateLimit)
	require.Empty(t, cfg.KeyFile)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_ISSUER", "https://auth.example.com")
	t.Setenv("AUTH_AUDIENCE", "web,mobile")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "15m")
	t.Setenv("AUTH_RATE_LIMIT", "false")

	cfg, err := ParseEnv()
	require.NoError(t, err)
	require.Equal(t, "https://auth.example.com", cfg.Issuer)
	require.Equal(t, []string{"web", "mobile"}, cfg.Audience)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.False(t, cfg.RateLimit)
}

func TestParseEnvRejectsBadValues(t *testing.T) {
	t.Setenv("AUTH_INVITE_TTL", "a week")

	_, err := ParseEnv()
	require.ErrorContains(t, err, "parse env:")
}

func TestNewWiresApplication(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AUTH_DB_PATH", filepath.Join(dir, "auth.db"))
	t.Setenv("AUTH_PEPPER_FILE", filepath.Join(dir, "pepper"))
	t.Setenv("AUTH_KEY_FILE", filepath.Join(dir, "keys", "signing.pem"))
	t.Setenv("AUTH_LOG_LEVEL", "error")

	cfg, err := ParseEnv()
	require.NoError(t, err)

	application, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	require.FileExists(t, cfg.KeyFile)
	require.FileExists(t, cfg.PepperFile)

	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"keys"`)
}

func TestSigningKeySurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Issuer:    "teamauth",
		Algorithm: "EdDSA",
		KeyFile:   filepath.Join(dir, "signing.pem"),
	}
	logger := slogx.Discard()

	first, err := InitAuthKeys(cfg, service.SystemClock{}, logger)
	require.NoError(t, err)
	second, err := InitAuthKeys(cfg, service.SystemClock{}, logger)
	require.NoError(t, err)

	require.Equal(t, first.JWKS(), second.JWKS())
}
