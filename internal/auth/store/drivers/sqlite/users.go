package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/domain"
	"github.com/aussiebroadwan/teamauth/internal/auth/store"
	"github.com/aussiebroadwan/teamauth/internal/auth/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return r.withChildren(ctx, mapUser(row))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return r.withChildren(ctx, mapUser(row))
}

func (r *usersRepo) GetUserByGoogleID(ctx context.Context, googleID string) (domain.User, error) {
	if googleID == "" {
		return domain.User{}, store.ErrNotFound
	}
	row, err := r.q.GetUserByGoogleID(ctx, mapStringNull(googleID))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return r.withChildren(ctx, mapUser(row))
}

func (r *usersRepo) GetUserByVerificationHash(ctx context.Context, hash string, now time.Time) (domain.User, error) {
	if hash == "" {
		return domain.User{}, store.ErrNotFound
	}
	row, err := r.q.GetUserByVerificationHash(ctx, gen.GetUserByVerificationHashParams{
		EmailVerificationHash:    mapStringNull(hash),
		EmailVerificationExpires: mapTimeNull(now),
	})
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return r.withChildren(ctx, mapUser(row))
}

func (r *usersRepo) GetUserByResetHash(ctx context.Context, hash string, now time.Time) (domain.User, error) {
	if hash == "" {
		return domain.User{}, store.ErrNotFound
	}
	row, err := r.q.GetUserByResetHash(ctx, gen.GetUserByResetHashParams{
		PasswordResetHash:    mapStringNull(hash),
		PasswordResetExpires: mapTimeNull(now),
	})
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return r.withChildren(ctx, mapUser(row))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:                       u.ID,
		Email:                    u.Email,
		Username:                 mapStringNull(u.Username),
		Name:                     u.Name,
		Company:                  u.Company,
		ProfilePicture:           u.ProfilePicture,
		GoogleID:                 mapStringNull(u.GoogleID),
		PasswordHash:             u.PasswordHash,
		Role:                     string(u.Role),
		IsActive:                 u.IsActive,
		IsEmailVerified:          u.IsEmailVerified,
		EmailVerificationHash:    mapStringNull(u.EmailVerificationHash),
		EmailVerificationExpires: mapOptionalTime(u.EmailVerificationExpires),
		PasswordResetHash:        mapStringNull(u.PasswordResetHash),
		PasswordResetExpires:     mapOptionalTime(u.PasswordResetExpires),
		PasswordChangedAt:        mapOptionalTime(u.PasswordChangedAt),
		LastLogin:                mapOptionalTime(u.LastLogin),
		ParentAccount:            mapStringNull(u.ParentAccount),
		CreatedAt:                u.CreatedAt.UTC(),
		UpdatedAt:                u.UpdatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *usersRepo) SaveUser(ctx context.Context, u domain.User) error {
	n, err := r.q.SaveUser(ctx, gen.SaveUserParams{
		Email:                    u.Email,
		Username:                 mapStringNull(u.Username),
		Name:                     u.Name,
		Company:                  u.Company,
		ProfilePicture:           u.ProfilePicture,
		GoogleID:                 mapStringNull(u.GoogleID),
		PasswordHash:             u.PasswordHash,
		Role:                     string(u.Role),
		IsActive:                 u.IsActive,
		IsEmailVerified:          u.IsEmailVerified,
		EmailVerificationHash:    mapStringNull(u.EmailVerificationHash),
		EmailVerificationExpires: mapOptionalTime(u.EmailVerificationExpires),
		PasswordResetHash:        mapStringNull(u.PasswordResetHash),
		PasswordResetExpires:     mapOptionalTime(u.PasswordResetExpires),
		PasswordChangedAt:        mapOptionalTime(u.PasswordChangedAt),
		LastLogin:                mapOptionalTime(u.LastLogin),
		ParentAccount:            mapStringNull(u.ParentAccount),
		UpdatedAt:                u.UpdatedAt.UTC(),
		ID:                       u.ID,
	})
	if err != nil {
		return mapConstraint(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) CountActiveChildAccounts(ctx context.Context, parentID string) (int, error) {
	n, err := r.q.CountActiveChildAccounts(ctx, mapStringNull(parentID))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *usersRepo) AddChildAccount(ctx context.Context, parentID, childID string) error {
	err := r.q.AddChildAccount(ctx, gen.AddChildAccountParams{
		ParentID:  parentID,
		ChildID:   childID,
		CreatedAt: time.Now().UTC(),
	})
	return mapConstraint(err)
}

func (r *usersRepo) ListChildAccounts(ctx context.Context, parentID string) ([]string, error) {
	return r.q.ListChildAccounts(ctx, parentID)
}

func (r *usersRepo) withChildren(ctx context.Context, u domain.User) (domain.User, error) {
	children, err := r.q.ListChildAccounts(ctx, u.ID)
	if err != nil {
		return domain.User{}, err
	}
	if len(children) > 0 {
		u.ChildAccounts = children
	}
	return u, nil
}
