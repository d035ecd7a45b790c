package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default lifetimes for the two token classes.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// TokenType separates access from refresh tokens so one can never stand in
// for the other.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims carried by every token this service signs.
type Claims struct {
	jwt.RegisteredClaims

	Type TokenType `json:"typ"`

	// Tier is the subject's role at issue time. Informational only; the
	// authoritative role is always reloaded from the user record.
	Tier string `json:"tier,omitempty"`
}

// ClaimsOptions describes a token to mint.
type ClaimsOptions struct {
	Type     TokenType
	Subject  string
	Tier     string
	Issuer   string
	Audience []string
	TTL      time.Duration
	Now      time.Time
	ID       string // defaults to a random jti
}

func NewClaims(o ClaimsOptions) Claims {
	id := o.ID
	if id == "" {
		id = NewJTI()
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    o.Issuer,
			Subject:   o.Subject,
			Audience:  jwt.ClaimStrings(o.Audience),
			IssuedAt:  jwt.NewNumericDate(o.Now),
			NotBefore: jwt.NewNumericDate(o.Now),
			ExpiresAt: jwt.NewNumericDate(o.Now.Add(o.TTL)),
			ID:        id,
		},
		Type: o.Type,
		Tier: o.Tier,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// IssuedAtTime returns iat, or the zero time when absent.
func (c Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}
