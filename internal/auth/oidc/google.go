// Package oidc verifies Google Sign-In ID tokens against Google's
// published signing keys.
package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

const GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

var googleIssuers = []string{"https://accounts.google.com", "accounts.google.com"}

var (
	ErrInvalidIDToken = errors.New("oidc: invalid id token")
	ErrEmailMissing   = errors.New("oidc: id token carries no email")
)

// Identity is what a verified Google ID token says about its holder.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type GoogleOptions struct {
	ClientID string
	JWKSURL  string // defaults to GoogleJWKSURL
	Logger   *slog.Logger
	Leeway   time.Duration
	Now      func() time.Time
}

type GoogleVerifier struct {
	clientID string
	jwks     *keyfunc.JWKS
	leeway   time.Duration
	now      func() time.Time
}

// NewGoogleVerifier fetches the key set once and keeps it fresh in the
// background until Close.
func NewGoogleVerifier(opts GoogleOptions) (*GoogleVerifier, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("oidc: google client id is required")
	}
	if opts.JWKSURL == "" {
		opts.JWKSURL = GoogleJWKSURL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Leeway == 0 {
		opts.Leeway = 30 * time.Second
	}

	logger := opts.Logger
	jwks, err := keyfunc.Get(opts.JWKSURL, keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			logger.Warn("google jwks refresh failed", slog.Any("error", err))
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("oidc: fetch google jwks: %w", err)
	}

	return &GoogleVerifier{
		clientID: opts.ClientID,
		jwks:     jwks,
		leeway:   opts.Leeway,
		now:      opts.Now,
	}, nil
}

func (v *GoogleVerifier) Close() { v.jwks.EndBackground() }

type googleClaims struct {
	jwt.RegisteredClaims
	Email         string   `json:"email"`
	EmailVerified flexBool `json:"email_verified"`
	Name          string   `json:"name"`
	Picture       string   `json:"picture"`
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
		jwt.WithLeeway(v.leeway),
	)

	var claims googleClaims
	if _, err := parser.ParseWithClaims(strings.TrimSpace(idToken), &claims, v.jwks.Keyfunc); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidIDToken, err)
	}
	if !slices.Contains(googleIssuers, claims.Issuer) {
		return Identity{}, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidIDToken, claims.Issuer)
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidIDToken)
	}
	if claims.Email == "" {
		return Identity{}, ErrEmailMissing
	}

	return Identity{
		Subject:       claims.Subject,
		Email:         strings.ToLower(strings.TrimSpace(claims.Email)),
		EmailVerified: bool(claims.EmailVerified),
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}

// flexBool accepts both true and "true"; older Google tokens sent the
// string form.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = flexBool(t)
	case string:
		*b = flexBool(strings.EqualFold(t, "true"))
	default:
		*b = false
	}
	return nil
}
