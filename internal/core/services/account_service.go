package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	"github.com/afrimoni/remit_backend/internal/core/domain"
	portsrepo "github.com/afrimoni/remit_backend/internal/core/ports/repositories"
	portssvc "github.com/afrimoni/remit_backend/internal/core/ports/services"
	"github.com/afrimoni/remit_backend/internal/dto"
	"github.com/afrimoni/remit_backend/internal/middleware"
)

// accountService manages wallet accounts.
type accountService struct {
	accountRepo  portsrepo.AccountRepository
	currencyRepo portsrepo.CurrencyRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepository, currencyRepo portsrepo.CurrencyRepository) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount implements portssvc.AccountSvcFacade.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.currencyRepo != nil {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, req.CurrencyCode)
			}
			return nil, fmt.Errorf("failed to validate currency: %w", err)
		}
	}

	role := domain.AccountRole(req.Role)
	if role == "" {
		role = domain.RoleUser
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:         uuid.NewString(),
		UserID:            creatorUserID,
		Phone:             req.Phone,
		Country:           req.Country,
		CurrencyCode:      req.CurrencyCode,
		Role:              role,
		Balance:           decimal.Zero,
		CommissionBalance: decimal.Zero,
		IsActive:          true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID))
	return &account, nil
}

// GetAccountByID implements portssvc.AccountSvcFacade. Existence is obscured
// from non-owners.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string, requestingUserID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != requestingUserID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// ListAccounts implements portssvc.AccountSvcFacade.
func (s *accountService) ListAccounts(ctx context.Context, requestingUserID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUserID(ctx, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// DeactivateAccount implements portssvc.AccountSvcFacade.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.UserID != requestingUserID {
		return apperrors.ErrNotFound
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: account balance must be zero before deactivation", apperrors.ErrConflict)
	}
	return s.accountRepo.DeactivateAccount(ctx, accountID, requestingUserID, time.Now().UTC())
}
