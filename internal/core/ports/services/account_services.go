package services

import (
	"context"

	"github.com/afrimoni/remit_backend/internal/core/domain"
	"github.com/afrimoni/remit_backend/internal/dto"
)

// AccountSvcFacade manages wallet accounts.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string, requestingUserID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, requestingUserID string) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error
}
