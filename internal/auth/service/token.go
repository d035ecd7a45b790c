package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/store"
	"github.com/aussiebroadwan/teamauth/pkg/cryptox"
	"github.com/aussiebroadwan/teamauth/pkg/jwtx"
	"github.com/aussiebroadwan/teamauth/pkg/slogx"
)

// TokenClaims is what a verified token says about its holder.
type TokenClaims struct {
	SubjectID string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
	Type      jwtx.TokenType
}

// TokenService mints and verifies session tokens. Access tokens are
// stateless; refresh tokens are also signed but must be present and
// unrevoked in the store, and rotate on every use.
type TokenService struct {
	Keys       *jwtx.KeyManager
	Store      store.Store
	Clock      Clock
	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}

// Verify checks signature, issuer, expiry and token class. It fails with
// ErrExpired when only the lifetime has run out and ErrInvalidToken for
// everything else.
func (s *TokenService) Verify(token string, typ jwtx.TokenType) (TokenClaims, error) {
	if token == "" {
		return TokenClaims{}, ErrInvalidToken
	}

	claims, err := s.Keys.Verify(token)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return TokenClaims{}, ErrExpired
		}
		return TokenClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != typ {
		return TokenClaims{}, fmt.Errorf("%w: expected %s token", ErrInvalidToken, typ)
	}
	if claims.Subject == "" {
		return TokenClaims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	out := TokenClaims{
		SubjectID: claims.Subject,
		IssuedAt:  claims.IssuedAtTime(),
		ID:        claims.ID,
		Type:      claims.Type,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Authenticate resolves an access token to its user. This is the only
// check that decides whether a caller is signed in.
func (s *TokenService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.Verify(token, jwtx.TokenTypeAccess)
	if err != nil {
		return domain.User{}, err
	}
	return s.loadSubject(ctx, s.Store, claims)
}

func (s *TokenService) loadSubject(ctx context.Context, st store.Store, claims TokenClaims) (domain.User, error) {
	user, err := st.Users().GetUserByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	if user.TokenPredates(claims.IssuedAt) {
		return domain.User{}, ErrPasswordChanged
	}
	if !user.IsActive {
		return domain.User{}, ErrInactive
	}
	return user, nil
}

// IssuePair signs a fresh access and refresh token for user and records
// the refresh token.
func (s *TokenService) IssuePair(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	var pair domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		pair, _, err = s.issuePair(ctx, tx, user, nowFrom(s.Clock))
		return err
	})
	return pair, err
}

func (s *TokenService) issuePair(
	ctx context.Context,
	tx store.Tx,
	user domain.User,
	now time.Time,
) (domain.TokenPair, string, error) {
	access, accessExp, err := s.sign(jwtx.TokenTypeAccess, user, "", s.accessTTL(), now)
	if err != nil {
		return domain.TokenPair{}, "", err
	}

	refreshID := jwtx.NewJTI()
	refresh, refreshExp, err := s.sign(jwtx.TokenTypeRefresh, user, refreshID, s.refreshTTL(), now)
	if err != nil {
		return domain.TokenPair{}, "", err
	}

	if err := tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        refreshID,
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(refresh),
		ExpiresAt: refreshExp,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return domain.TokenPair{}, "", fmt.Errorf("store refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		TokenType:        "Bearer",
		ExpiresIn:        int64(s.accessTTL().Seconds()),
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, refreshID, nil
}

func (s *TokenService) sign(
	typ jwtx.TokenType,
	user domain.User,
	id string,
	ttl time.Duration,
	now time.Time,
) (string, time.Time, error) {
	claims := jwtx.NewClaims(jwtx.ClaimsOptions{
		Type:     typ,
		Subject:  user.ID,
		Tier:     string(user.Role),
		Issuer:   s.Issuer,
		Audience: s.Audience,
		TTL:      ttl,
		Now:      now,
		ID:       id,
	})

	token, err := s.Keys.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return token, claims.ExpiresAt.Time, nil
}

// Rotate exchanges a refresh token for a new pair. The presented token is
// revoked; presenting it again revokes every refresh token of its user.
func (s *TokenService) Rotate(ctx context.Context, token string) (domain.TokenPair, domain.User, error) {
	log := slogx.FromContext(ctx)
	now := nowFrom(s.Clock)

	claims, err := s.Verify(token, jwtx.TokenTypeRefresh)
	if err != nil {
		return domain.TokenPair{}, domain.User{}, err
	}
	hash := cryptox.FingerprintToken(token)

	var (
		pair   domain.TokenPair
		user   domain.User
		reused bool
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		rec, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: unknown refresh token", ErrInvalidToken)
			}
			return err
		}
		if rec.Revoked {
			reused = true
			return tx.RefreshTokens().RevokeAllUserRefreshTokens(ctx, rec.UserID, now)
		}

		user, err = s.loadSubject(ctx, tx, claims)
		if err != nil {
			return err
		}

		var newID string
		pair, newID, err = s.issuePair(ctx, tx, user, now)
		if err != nil {
			return err
		}

		ok, err := tx.RefreshTokens().RevokeRefreshToken(ctx, hash, newID, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: refresh token already used", ErrInvalidToken)
		}
		return nil
	})
	if err != nil {
		return domain.TokenPair{}, domain.User{}, err
	}
	if reused {
		log.Warn("revoked refresh token presented, revoking all sessions",
			slog.String("user_id", claims.SubjectID),
		)
		return domain.TokenPair{}, domain.User{}, fmt.Errorf("%w: refresh token reused", ErrInvalidToken)
	}

	return pair, user, nil
}

// Revoke retires one refresh token belonging to userID. Unknown or foreign
// tokens are ignored.
func (s *TokenService) Revoke(ctx context.Context, userID, token string) error {
	if token == "" {
		return nil
	}
	hash := cryptox.FingerprintToken(token)

	rec, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if rec.UserID != userID {
		return nil
	}

	_, err = s.Store.RefreshTokens().RevokeRefreshToken(ctx, hash, "", nowFrom(s.Clock))
	return err
}

// RevokeAll retires every refresh token of userID.
func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	return s.Store.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID, nowFrom(s.Clock))
}
