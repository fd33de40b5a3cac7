package dto

import (
	"time"

	"github.com/afrimoni/remit_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBillRequest defines the data needed to schedule an automatic bill.
type CreateBillRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	DueDate      time.Time       `json:"dueDate" binding:"required"`
	Recurrence   string          `json:"recurrence" binding:"required,oneof=ONCE WEEKLY MONTHLY"`
	Priority     int             `json:"priority" binding:"omitempty,min=1"`
}

// BillResponse mirrors domain.AutomaticBill for API output.
type BillResponse struct {
	BillID          string          `json:"billID"`
	AccountID       string          `json:"accountID"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	DueDate         time.Time       `json:"dueDate"`
	Recurrence      string          `json:"recurrence"`
	PaymentAttempts int             `json:"paymentAttempts"`
	Status          string          `json:"status"`
	Priority        int             `json:"priority"`
}

// ToBillResponse converts a domain.AutomaticBill to its API representation.
func ToBillResponse(b *domain.AutomaticBill) BillResponse {
	return BillResponse{
		BillID:          b.BillID,
		AccountID:       b.AccountID,
		Name:            b.Name,
		Amount:          b.Amount,
		CurrencyCode:    b.CurrencyCode,
		DueDate:         b.DueDate,
		Recurrence:      string(b.Recurrence),
		PaymentAttempts: b.PaymentAttempts,
		Status:          string(b.Status),
		Priority:        b.Priority,
	}
}

// ToBillResponses converts a slice of domain bills.
func ToBillResponses(bills []domain.AutomaticBill) []BillResponse {
	res := make([]BillResponse, len(bills))
	for i := range bills {
		res[i] = ToBillResponse(&bills[i])
	}
	return res
}

// BillBatchSummary reports what a daily batch run did.
type BillBatchSummary struct {
	RemindersSent          int `json:"remindersSent"`
	DueBillsProcessed      int `json:"dueBillsProcessed"`
	RetriesAttempted       int `json:"retriesAttempted"`
	PaymentsSucceeded      int `json:"paymentsSucceeded"`
	PaymentsFailed         int `json:"paymentsFailed"`
	BillsMarkedFailed      int `json:"billsMarkedFailed"`
	PendingTransfersExpired int `json:"pendingTransfersExpired"`
}
