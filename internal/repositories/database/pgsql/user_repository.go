package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	"github.com/afrimoni/remit_backend/internal/core/domain"
	portsrepo "github.com/afrimoni/remit_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{pool: pool}
}

// Ensure PgxUserRepository implements portsrepo.UserRepository
var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

const userColumns = `user_id, name, phone, country, password_hash, auth_provider, provider_user_id, email, refresh_token_hash, refresh_token_expiry_time, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.UserID,
		&u.Name,
		&u.Phone,
		&u.Country,
		&u.PasswordHash,
		&u.AuthProvider,
		&u.ProviderUserID,
		&u.Email,
		&u.RefreshTokenHash,
		&u.RefreshTokenExpiryTime,
		&u.CreatedAt,
		&u.CreatedBy,
		&u.LastUpdatedAt,
		&u.LastUpdatedBy,
		&u.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveUser inserts a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`

	_, err := r.pool.Exec(ctx, query,
		user.UserID,
		user.Name,
		user.Phone,
		user.Country,
		user.PasswordHash,
		user.AuthProvider,
		user.ProviderUserID,
		user.Email,
		user.RefreshTokenHash,
		user.RefreshTokenExpiryTime,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
		user.DeletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: user already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user %s: %w", user.UserID, err)
	}
	return nil
}

// FindUserByID retrieves a user by ID, excluding soft-deleted users.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND deleted_at IS NULL;`

	u, err := scanUser(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return u, nil
}

// FindUserByPhone retrieves a user by phone number.
func (r *PgxUserRepository) FindUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1 AND deleted_at IS NULL;`

	u, err := scanUser(r.pool.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	return u, nil
}

// FindUserByProviderID retrieves a user by OAuth provider identity.
func (r *PgxUserRepository) FindUserByProviderID(ctx context.Context, provider string, providerUserID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE auth_provider = $1 AND provider_user_id = $2 AND deleted_at IS NULL;`

	u, err := scanUser(r.pool.QueryRow(ctx, query, provider, providerUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by provider identity: %w", err)
	}
	return u, nil
}

// UpdateUser updates a user's mutable profile fields.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET name = $2, country = $3, email = $4, last_updated_at = $5, last_updated_by = $6
		WHERE user_id = $1 AND deleted_at IS NULL;
	`

	cmdTag, err := r.pool.Exec(ctx, query,
		user.UserID,
		user.Name,
		user.Country,
		user.Email,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateRefreshToken stores the hash and expiry of a user's refresh token.
// An empty hash with nil expiry clears the token (logout).
func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry *time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $2, refresh_token_expiry_time = $3, last_updated_at = $4
		WHERE user_id = $1 AND deleted_at IS NULL;
	`

	cmdTag, err := r.pool.Exec(ctx, query, userID, refreshTokenHash, expiry, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
