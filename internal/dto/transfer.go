package dto

import (
	"time"

	"github.com/afrimoni/remit_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransferRequest defines the data needed to execute a money transfer.
type CreateTransferRequest struct {
	SenderAccountID  string          `json:"senderAccountID" binding:"required"`
	RecipientPhone   string          `json:"recipientPhone" binding:"required"`
	RecipientCountry string          `json:"recipientCountry" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode     string          `json:"currencyCode" binding:"required,len=3"`
}

// TransferResult is returned by the transfer orchestration.
// Status is "completed" for a direct transfer or "pending" when the recipient
// has no account yet and a claim code was issued.
type TransferResult struct {
	Success    bool    `json:"success"`
	TransferID string  `json:"transferID"`
	Status     string  `json:"status"`
	ClaimCode  *string `json:"claimCode,omitempty"`
	Message    string  `json:"message"`
}

// ClaimTransferRequest redeems a pending transfer with its claim code.
type ClaimTransferRequest struct {
	ClaimCode string `json:"claimCode" binding:"required,len=6,alphanum"`
	AccountID string `json:"accountID" binding:"required"`
}

// TransferResponse mirrors domain.Transfer for API output.
type TransferResponse struct {
	TransferID         string          `json:"transferID"`
	SenderAccountID    string          `json:"senderAccountID"`
	RecipientAccountID string          `json:"recipientAccountID"`
	Amount             decimal.Decimal `json:"amount"`
	Fee                decimal.Decimal `json:"fee"`
	CurrencyCode       string          `json:"currencyCode"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ToTransferResponse converts a domain.Transfer to its API representation.
func ToTransferResponse(t *domain.Transfer) TransferResponse {
	return TransferResponse{
		TransferID:         t.TransferID,
		SenderAccountID:    t.SenderAccountID,
		RecipientAccountID: t.RecipientAccountID,
		Amount:             t.Amount,
		Fee:                t.Fee,
		CurrencyCode:       t.CurrencyCode,
		Status:             string(t.Status),
		CreatedAt:          t.CreatedAt,
	}
}

// ToTransferResponses converts a slice of domain transfers.
func ToTransferResponses(transfers []domain.Transfer) []TransferResponse {
	res := make([]TransferResponse, len(transfers))
	for i := range transfers {
		res[i] = ToTransferResponse(&transfers[i])
	}
	return res
}

// ListTransfersParams defines query parameters for listing transfers.
type ListTransfersParams struct {
	AccountID string  `form:"accountID" binding:"required"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransfersResponse wraps a page of transfers.
type ListTransfersResponse struct {
	Transfers []TransferResponse `json:"transfers"`
	NextToken *string            `json:"nextToken,omitempty"`
}
