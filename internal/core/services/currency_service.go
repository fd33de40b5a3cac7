package services

import (
	"context"
	"strings"
	"time"

	"github.com/afrimoni/remit_backend/internal/core/domain"
	portsrepo "github.com/afrimoni/remit_backend/internal/core/ports/repositories"
	portssvc "github.com/afrimoni/remit_backend/internal/core/ports/services"
	"github.com/afrimoni/remit_backend/internal/dto"
)

// currencyService exposes currency reference data.
type currencyService struct {
	currencyRepo portsrepo.CurrencyRepository
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepository) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	now := time.Now().UTC()
	currency := domain.Currency{
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    req.Precision,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, err
	}
	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	return s.currencyRepo.FindCurrencyByCode(ctx, code)
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.currencyRepo.ListCurrencies(ctx)
}
