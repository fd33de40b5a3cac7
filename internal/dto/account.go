package dto

import (
	"time"

	"github.com/afrimoni/remit_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a wallet account.
type CreateAccountRequest struct {
	Phone        string `json:"phone" binding:"required,e164"`
	Country      string `json:"country" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
	Role         string `json:"role" binding:"omitempty,oneof=USER AGENT ADMIN SUB_ADMIN MERCHANT PROVIDER"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID         string          `json:"accountID"`
	UserID            string          `json:"userID"`
	Phone             string          `json:"phone"`
	Country           string          `json:"country"`
	CurrencyCode      string          `json:"currencyCode"`
	Role              string          `json:"role"`
	Balance           decimal.Decimal `json:"balance"`
	CommissionBalance decimal.Decimal `json:"commissionBalance"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:         acc.AccountID,
		UserID:            acc.UserID,
		Phone:             acc.Phone,
		Country:           acc.Country,
		CurrencyCode:      acc.CurrencyCode,
		Role:              string(acc.Role),
		Balance:           acc.Balance,
		CommissionBalance: acc.CommissionBalance,
		IsActive:          acc.IsActive,
		CreatedAt:         acc.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
