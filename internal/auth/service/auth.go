package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/mail"
	"github.com/aussiebroadwan/teamauth/internal/auth/oidc"
	"github.com/aussiebroadwan/teamauth/internal/auth/store"
	"github.com/aussiebroadwan/teamauth/pkg/cryptox"
	"github.com/aussiebroadwan/teamauth/pkg/idx"
	"github.com/aussiebroadwan/teamauth/pkg/slogx"
)

const (
	DefaultVerificationTTL = 24 * time.Hour
	DefaultResetTTL        = time.Hour

	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// GoogleVerifier checks a Google Sign-In ID token.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (oidc.Identity, error)
}

// AuthService runs the account flows: registration, login, email
// verification, password reset and change, and session refresh.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService
	Hasher *cryptox.Hasher
	Mailer mail.Sender
	Clock  Clock
	Links  Links
	Google GoogleVerifier // nil disables google sign-in

	// ConcealUnknownEmail makes ForgotPassword succeed silently for
	// addresses with no account.
	ConcealUnknownEmail bool

	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
	Name     string
	Company  string
}

type Registration struct {
	User     domain.PublicUser
	Warnings []string
}

// Session is a signed-in user and the tokens that prove it.
type Session struct {
	User   domain.PublicUser
	Tokens domain.TokenPair
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return fmt.Errorf("%w: password must be %d-%d characters", ErrValidation, MinPasswordLength, MaxPasswordLength)
	}
	return nil
}

func (s *AuthService) verificationTTL() time.Duration {
	if s.VerificationTTL <= 0 {
		return DefaultVerificationTTL
	}
	return s.VerificationTTL
}

func (s *AuthService) resetTTL() time.Duration {
	if s.ResetTTL <= 0 {
		return DefaultResetTTL
	}
	return s.ResetTTL
}

// Register creates an unverified account and emails its verification
// link.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Registration, error) {
	log := slogx.FromContext(ctx)
	now := nowFrom(s.Clock)

	email := NormalizeEmail(in.Email)
	if email == "" {
		return Registration{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if err := ValidatePassword(in.Password); err != nil {
		return Registration{}, err
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return Registration{}, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return Registration{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return Registration{}, err
	}
	raw, verifyHash, err := cryptox.NewLinkToken()
	if err != nil {
		return Registration{}, err
	}
	expires := now.Add(s.verificationTTL())

	user := domain.User{
		ID:                       idx.NewAt(now).String(),
		Email:                    email,
		Username:                 strings.ToLower(strings.TrimSpace(in.Username)),
		Name:                     strings.TrimSpace(in.Name),
		Company:                  strings.TrimSpace(in.Company),
		PasswordHash:             hash,
		Role:                     domain.TierFree,
		IsActive:                 true,
		EmailVerificationHash:    verifyHash,
		EmailVerificationExpires: &expires,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		return Registration{}, mapDuplicate(err)
	}

	log.Info("user registered", slog.String("user_id", user.ID))

	n := newNotifier(s.Mailer)
	n.send(ctx, s.verificationMessage(user, raw))

	return Registration{User: user.Public(), Warnings: n.Warnings()}, nil
}

func (s *AuthService) verificationMessage(user domain.User, raw string) mail.Message {
	return mail.Message{
		To:       user.Email,
		Subject:  "Verify your email address",
		Template: mail.TemplateEmailVerification,
		Data: map[string]any{
			"Name":            user.Name,
			"VerificationURL": s.Links.VerifyEmail(raw),
		},
	}
}

// Login checks credentials. Unknown email and wrong password fail the
// same way and take the same time.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	log := slogx.FromContext(ctx)
	now := nowFrom(s.Clock)

	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Hasher.VerifyDummy(password)
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := s.Hasher.Verify(user.PasswordHash, password); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			log.Error("stored password hash unusable", slog.String("user_id", user.ID), slog.Any("error", err))
		}
		return Session{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return Session{}, ErrInactive
	}
	if !user.IsEmailVerified {
		return Session{}, ErrEmailNotVerified
	}

	user.LastLogin = &now
	user.UpdatedAt = now
	if s.Hasher.NeedsRehash(user.PasswordHash) {
		if upgraded, err := s.Hasher.Hash(password); err == nil {
			user.PasswordHash = upgraded
			log.Info("password hash upgraded", slog.String("user_id", user.ID))
		}
	}
	if err := s.Store.Users().SaveUser(ctx, user); err != nil {
		return Session{}, err
	}

	return s.session(ctx, user)
}

func (s *AuthService) session(ctx context.Context, user domain.User) (Session, error) {
	pair, err := s.Tokens.IssuePair(ctx, user)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user.Public(), Tokens: pair}, nil
}

// VerifyEmail consumes a verification token and signs the user in.
func (s *AuthService) VerifyEmail(ctx context.Context, raw string) (Session, error) {
	now := nowFrom(s.Clock)

	user, err := s.Store.Users().GetUserByVerificationHash(ctx, cryptox.FingerprintToken(raw), now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidOrExpired
		}
		return Session{}, err
	}

	user.IsEmailVerified = true
	user.EmailVerificationHash = ""
	user.EmailVerificationExpires = nil
	user.UpdatedAt = now
	if err := s.Store.Users().SaveUser(ctx, user); err != nil {
		return Session{}, err
	}

	slogx.FromContext(ctx).Info("email verified", slog.String("user_id", user.ID))
	return s.session(ctx, user)
}

// ResendVerification issues a new verification token, replacing the old
// one.
func (s *AuthService) ResendVerification(ctx context.Context, email string) ([]string, error) {
	now := nowFrom(s.Clock)

	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.IsEmailVerified {
		return nil, ErrAlreadyVerified
	}

	raw, hash, err := cryptox.NewLinkToken()
	if err != nil {
		return nil, err
	}
	expires := now.Add(s.verificationTTL())
	user.EmailVerificationHash = hash
	user.EmailVerificationExpires = &expires
	user.UpdatedAt = now
	if err := s.Store.Users().SaveUser(ctx, user); err != nil {
		return nil, err
	}

	n := newNotifier(s.Mailer)
	n.send(ctx, s.verificationMessage(user, raw))
	return n.Warnings(), nil
}

// ForgotPassword stores a reset token fingerprint and emails the raw
// token. The emailed value is never persisted.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) ([]string, error) {
	now := nowFrom(s.Clock)

	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if s.ConcealUnknownEmail {
				return nil, nil
			}
			return nil, ErrNotFound
		}
		return nil, err
	}

	raw, hash, err := cryptox.NewLinkToken()
	if err != nil {
		return nil, err
	}
	expires := now.Add(s.resetTTL())
	user.PasswordResetHash = hash
	user.PasswordResetExpires = &expires
	user.UpdatedAt = now
	if err := s.Store.Users().SaveUser(ctx, user); err != nil {
		return nil, err
	}

	n := newNotifier(s.Mailer)
	n.send(ctx, mail.Message{
		To:       user.Email,
		Subject:  "Password reset instructions",
		Template: mail.TemplatePasswordReset,
		Data: map[string]any{
			"Name":     user.Name,
			"ResetURL": s.Links.ResetPassword(raw),
		},
	})
	return n.Warnings(), nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, raw, newPassword string) (Session, error) {
	if err := ValidatePassword(newPassword); err != nil {
		return Session{}, err
	}
	now := nowFrom(s.Clock)

	user, err := s.Store.Users().GetUserByResetHash(ctx, cryptox.FingerprintToken(raw), now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidOrExpired
		}
		return Session{}, err
	}

	user.PasswordResetHash = ""
	user.PasswordResetExpires = nil
	if err := s.replacePassword(ctx, &user, newPassword, now); err != nil {
		return Session{}, err
	}

	slogx.FromContext(ctx).Info("password reset", slog.String("user_id", user.ID))
	return s.session(ctx, user)
}

// ChangePassword replaces the password of a signed-in user.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword string) (Session, error) {
	if err := ValidatePassword(newPassword); err != nil {
		return Session{}, err
	}
	now := nowFrom(s.Clock)

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	if err := s.Hasher.Verify(user.PasswordHash, current); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	if err := s.replacePassword(ctx, &user, newPassword, now); err != nil {
		return Session{}, err
	}

	slogx.FromContext(ctx).Info("password changed", slog.String("user_id", user.ID))
	return s.session(ctx, user)
}

// replacePassword stores the new hash and moves the password checkpoint,
// which invalidates every token issued before now. Outstanding refresh
// tokens are revoked in the same transaction.
func (s *AuthService) replacePassword(ctx context.Context, user *domain.User, password string, now time.Time) error {
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return err
	}

	// Token iat has second precision.
	changed := now.Truncate(time.Second)
	user.PasswordHash = hash
	user.PasswordChangedAt = &changed
	user.UpdatedAt = now

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().SaveUser(ctx, *user); err != nil {
			return err
		}
		return tx.RefreshTokens().RevokeAllUserRefreshTokens(ctx, user.ID, now)
	})
}

// RefreshToken rotates a refresh token. Any failure reads as bad
// credentials.
func (s *AuthService) RefreshToken(ctx context.Context, raw string) (Session, error) {
	if raw == "" {
		return Session{}, fmt.Errorf("%w: refresh token required", ErrInvalidCredentials)
	}

	pair, user, err := s.Tokens.Rotate(ctx, raw)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpired),
			errors.Is(err, ErrPasswordChanged), errors.Is(err, ErrInactive),
			errors.Is(err, ErrNotFound):
			return Session{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return Session{}, err
	}
	return Session{User: user.Public(), Tokens: pair}, nil
}

// GoogleAuth signs in with a Google ID token, linking or creating the
// account by email on first use.
func (s *AuthService) GoogleAuth(ctx context.Context, idToken string) (Session, error) {
	if s.Google == nil {
		return Session{}, ErrGoogleDisabled
	}
	log := slogx.FromContext(ctx)
	now := nowFrom(s.Clock)

	id, err := s.Google.Verify(ctx, idToken)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !id.EmailVerified {
		return Session{}, fmt.Errorf("%w: google email not verified", ErrEmailNotVerified)
	}

	user, err := s.Store.Users().GetUserByGoogleID(ctx, id.Subject)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		user, err = s.linkGoogle(ctx, id, now)
		if err != nil {
			return Session{}, err
		}
	default:
		return Session{}, err
	}

	if !user.IsActive {
		return Session{}, ErrInactive
	}

	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.Store.Users().SaveUser(ctx, user); err != nil {
		return Session{}, err
	}

	log.Info("google sign-in", slog.String("user_id", user.ID))
	return s.session(ctx, user)
}

func (s *AuthService) linkGoogle(ctx context.Context, id oidc.Identity, now time.Time) (domain.User, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, id.Email)
	if err == nil {
		user.GoogleID = id.Subject
		if id.Picture != "" {
			user.ProfilePicture = id.Picture
		}
		user.IsEmailVerified = true
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	// Google-only accounts get a random password; a reset sets a real one.
	secret, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return domain.User{}, err
	}
	hash, err := s.Hasher.Hash(secret)
	if err != nil {
		return domain.User{}, err
	}

	user = domain.User{
		ID:              idx.NewAt(now).String(),
		Email:           id.Email,
		Name:            id.Name,
		ProfilePicture:  id.Picture,
		GoogleID:        id.Subject,
		PasswordHash:    hash,
		Role:            domain.TierFree,
		IsActive:        true,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		return domain.User{}, mapDuplicate(err)
	}
	return user, nil
}

// Logout revokes the presented refresh token. Access tokens stay valid
// until they expire.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	return s.Tokens.Revoke(ctx, userID, refreshToken)
}

// LogoutEverywhere revokes every refresh token of userID. Access tokens
// already issued stay valid until they expire.
func (s *AuthService) LogoutEverywhere(ctx context.Context, userID string) error {
	if err := s.Tokens.RevokeAll(ctx, userID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("signed out of all sessions", slog.String("user_id", userID))
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (domain.PublicUser, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.PublicUser{}, ErrNotFound
		}
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

// CheckEmail reports whether an account exists for email.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func mapDuplicate(err error) error {
	var dup *store.DuplicateKeyError
	if errors.As(err, &dup) {
		return fmt.Errorf("%w: %s already in use", ErrConflict, dup.Field)
	}
	return err
}
