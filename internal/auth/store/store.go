package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// DuplicateKeyError reports which unique field a write collided on.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("store: duplicate %s", e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrAlreadyExists }

// Store is the root data access interface. Sub-repositories hang off it so a
// transaction hands out the same repos bound to the tx, and nobody opens a
// transaction inside another.
type Store interface {
	Users() Users
	Subscriptions() Subscriptions
	Invites() Invites
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// WithTx runs fn in a read/write transaction, committing when fn returns
	// nil. fn must only use the tx it is handed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (domain.User, error)

	// GetUserByVerificationHash matches a live (expires > now) token.
	GetUserByVerificationHash(ctx context.Context, hash string, now time.Time) (domain.User, error)

	// GetUserByResetHash matches a live (expires > now) reset token.
	GetUserByResetHash(ctx context.Context, hash string, now time.Time) (domain.User, error)

	// CreateUser fails with *DuplicateKeyError on email, username or google id.
	CreateUser(ctx context.Context, u domain.User) error

	// SaveUser writes every mutable column of u.
	SaveUser(ctx context.Context, u domain.User) error

	// CountActiveChildAccounts counts active users whose parent is parentID.
	CountActiveChildAccounts(ctx context.Context, parentID string) (int, error)

	// AddChildAccount is an idempotent set insert.
	AddChildAccount(ctx context.Context, parentID, childID string) error
	ListChildAccounts(ctx context.Context, parentID string) ([]string, error)
}

type Subscriptions interface {
	GetSubscriptionByUserID(ctx context.Context, userID string) (domain.Subscription, error)
	UpsertSubscription(ctx context.Context, s domain.Subscription) error
}

// InviteFilter narrows a team listing. Empty Status means all.
type InviteFilter struct {
	TeamID string
	Status domain.InviteStatus
	Limit  int
	Offset int
}

type Invites interface {
	// CreateInvite fails with *DuplicateKeyError{Field: "pending_invite"}
	// when a pending invite for the same email and team exists.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)
	GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)
	GetPendingInvite(ctx context.Context, email, teamID string) (domain.Invite, error)

	// TransitionInvite moves a pending invite to status. It reports false
	// when the invite was no longer pending.
	TransitionInvite(ctx context.Context, id string, status domain.InviteStatus, now time.Time) (bool, error)

	// CancelInvite expires a pending invite and records who withdrew it.
	CancelInvite(ctx context.Context, id, cancelledBy string, now time.Time) (bool, error)

	// RecordResend rotates the token and bumps the resend counters of a
	// pending invite.
	RecordResend(ctx context.Context, id, tokenHash string, expiresAt, now time.Time) (bool, error)

	CountPendingInvites(ctx context.Context, teamID string) (int, error)
	ListInvites(ctx context.Context, f InviteFilter) ([]domain.Invite, error)
	CountInvites(ctx context.Context, f InviteFilter) (int, error)

	// ExpirePendingInvites flips every pending invite with expires_at <= now.
	ExpirePendingInvites(ctx context.Context, now time.Time) (int64, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken revokes a live token, reporting false when it was
	// already revoked.
	RevokeRefreshToken(ctx context.Context, hash, replacedBy string, now time.Time) (bool, error)
	RevokeAllUserRefreshTokens(ctx context.Context, userID string, now time.Time) error
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}
