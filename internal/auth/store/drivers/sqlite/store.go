package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/store"
	"github.com/aussiebroadwan/teamauth/internal/auth/store/drivers/sqlite/gen"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

// NewStore opens the database at dsn. A single connection is kept so
// writers are serialised and ":memory:" databases survive across calls.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users                 { return &usersRepo{q: s.q} }
func (s *Store) Subscriptions() store.Subscriptions { return &subscriptionsRepo{q: s.q} }
func (s *Store) Invites() store.Invites             { return &invitesRepo{q: s.q} }
func (s *Store) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns a unique violation into a *store.DuplicateKeyError
// naming the field that collided.
func mapConstraint(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
	default:
		return err
	}

	msg := se.Error()
	switch {
	case strings.Contains(msg, "users.email"):
		return &store.DuplicateKeyError{Field: "email"}
	case strings.Contains(msg, "users.username"):
		return &store.DuplicateKeyError{Field: "username"}
	case strings.Contains(msg, "users.google_id"):
		return &store.DuplicateKeyError{Field: "google_id"}
	case strings.Contains(msg, "invites.email"), strings.Contains(msg, "invites.team_id"):
		return &store.DuplicateKeyError{Field: "pending_invite"}
	case strings.Contains(msg, "invites.token_hash"), strings.Contains(msg, "refresh_tokens.token_hash"):
		return &store.DuplicateKeyError{Field: "token"}
	default:
		return &store.DuplicateKeyError{Field: "id"}
	}
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func mapTimeNull(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func mapUser(row gen.User) domain.User {
	return domain.User{
		ID:                       row.ID,
		Email:                    row.Email,
		Username:                 mapNullString(row.Username),
		Name:                     row.Name,
		Company:                  row.Company,
		ProfilePicture:           row.ProfilePicture,
		GoogleID:                 mapNullString(row.GoogleID),
		PasswordHash:             row.PasswordHash,
		Role:                     domain.Tier(row.Role),
		IsActive:                 row.IsActive,
		IsEmailVerified:          row.IsEmailVerified,
		EmailVerificationHash:    mapNullString(row.EmailVerificationHash),
		EmailVerificationExpires: mapNullTimePtr(row.EmailVerificationExpires),
		PasswordResetHash:        mapNullString(row.PasswordResetHash),
		PasswordResetExpires:     mapNullTimePtr(row.PasswordResetExpires),
		PasswordChangedAt:        mapNullTimePtr(row.PasswordChangedAt),
		LastLogin:                mapNullTimePtr(row.LastLogin),
		ParentAccount:            mapNullString(row.ParentAccount),
		CreatedAt:                row.CreatedAt.UTC(),
		UpdatedAt:                row.UpdatedAt.UTC(),
	}
}

func mapSubscription(row gen.Subscription) domain.Subscription {
	return domain.Subscription{
		UserID:     row.UserID,
		Plan:       domain.Tier(row.Plan),
		Status:     domain.SubscriptionStatus(row.Status),
		SeatsTotal: int(row.SeatsTotal),
		SeatsUsed:  int(row.SeatsUsed),
		StartDate:  row.StartDate.UTC(),
		EndDate:    mapNullTimePtr(row.EndDate),
		AutoRenew:  row.AutoRenew,
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
}

func mapInvite(row gen.Invite) domain.Invite {
	return domain.Invite{
		ID:          row.ID,
		Email:       row.Email,
		InvitedBy:   row.InvitedBy,
		TeamID:      row.TeamID,
		Role:        domain.Tier(row.Role),
		TokenHash:   row.TokenHash,
		Status:      domain.InviteStatus(row.Status),
		Message:     row.Message,
		ExpiresAt:   row.ExpiresAt.UTC(),
		ResendCount: int(row.ResendCount),
		LastResent:  mapNullTimePtr(row.LastResent),
		CancelledAt: mapNullTimePtr(row.CancelledAt),
		CancelledBy: mapNullString(row.CancelledBy),
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func mapRefreshToken(row gen.RefreshToken) domain.RefreshToken {
	return domain.RefreshToken{
		ID:         row.ID,
		UserID:     row.UserID,
		TokenHash:  row.TokenHash,
		ExpiresAt:  row.ExpiresAt.UTC(),
		Revoked:    row.Revoked,
		ReplacedBy: mapNullString(row.ReplacedBy),
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
}
