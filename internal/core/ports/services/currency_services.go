package services

import (
	"context"

	"github.com/afrimoni/remit_backend/internal/core/domain"
	"github.com/afrimoni/remit_backend/internal/dto"
)

// CurrencySvcFacade manages currency reference data.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
