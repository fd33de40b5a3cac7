package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	"github.com/afrimoni/remit_backend/internal/core/domain"
	portsrepo "github.com/afrimoni/remit_backend/internal/core/ports/repositories"
	portssvc "github.com/afrimoni/remit_backend/internal/core/ports/services"
	"github.com/afrimoni/remit_backend/internal/dto"
	"github.com/afrimoni/remit_backend/internal/middleware"
	"github.com/afrimoni/remit_backend/internal/utils"
)

// userService manages users and their credentials.
type userService struct {
	userRepo   portsrepo.UserRepository
	bcryptCost int
}

// NewUserService creates a new UserService. bcryptCost controls the work
// factor used when hashing local-auth passwords.
func NewUserService(userRepo portsrepo.UserRepository, bcryptCost int) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, bcryptCost: bcryptCost}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser implements portssvc.UserSvcFacade.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.userRepo.FindUserByPhone(ctx, req.Phone); err == nil {
		return nil, fmt.Errorf("%w: phone number already registered", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Phone:        req.Phone,
		Country:      req.Country,
		PasswordHash: hash,
		AuthProvider: "local",
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "SELF_REGISTRATION",
			LastUpdatedAt: now,
			LastUpdatedBy: "SELF_REGISTRATION",
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// GetUserByID implements portssvc.UserSvcFacade.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// GetUserByPhone implements portssvc.UserSvcFacade.
func (s *userService) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return s.userRepo.FindUserByPhone(ctx, phone)
}

// UpdateUserDetails implements portssvc.UserSvcFacade.
func (s *userService) UpdateUserDetails(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Country != nil {
		user.Country = *req.Country
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = userID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// FindOrCreateOAuthUser implements portssvc.UserSvcFacade.
func (s *userService) FindOrCreateOAuthUser(ctx context.Context, provider string, providerUserID string, email string, name string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByProviderID(ctx, provider, providerUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up OAuth user: %w", err)
	}

	now := time.Now().UTC()
	newUser := domain.User{
		UserID:         uuid.NewString(),
		Name:           name,
		AuthProvider:   provider,
		ProviderUserID: &providerUserID,
		Email:          &email,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "OAUTH_" + provider,
			LastUpdatedAt: now,
			LastUpdatedBy: "OAUTH_" + provider,
		},
	}

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		logger.Error("Failed to save OAuth user", slog.String("provider", provider), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("OAuth user created", slog.String("user_id", newUser.UserID), slog.String("provider", provider))
	return &newUser, nil
}

// UpdateRefreshTokenDetails implements portssvc.UserSvcFacade.
func (s *userService) UpdateRefreshTokenDetails(ctx context.Context, userID string, refreshTokenHash string, expiry *time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, expiry)
}
