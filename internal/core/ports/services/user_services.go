package services

import (
	"context"
	"time"

	"github.com/afrimoni/remit_backend/internal/core/domain"
	"github.com/afrimoni/remit_backend/internal/dto"
)

// UserSvcFacade manages users and their credentials.
type UserSvcFacade interface {
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	UpdateUserDetails(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// FindOrCreateOAuthUser resolves the local user for an external identity,
	// creating one on first sign-in.
	FindOrCreateOAuthUser(ctx context.Context, provider string, providerUserID string, email string, name string) (*domain.User, error)

	// UpdateRefreshTokenDetails stores the hash and expiry of a newly issued
	// refresh token; empty hash clears it (logout).
	UpdateRefreshTokenDetails(ctx context.Context, userID string, refreshTokenHash string, expiry *time.Time) error
}
