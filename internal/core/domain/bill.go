package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus tracks the lifecycle of an automatic bill.
type BillStatus string

const (
	BillPending   BillStatus = "PENDING"
	BillCompleted BillStatus = "COMPLETED"
	BillFailed    BillStatus = "FAILED"
)

// BillRecurrence controls how the due date advances after a successful payment.
type BillRecurrence string

const (
	RecurrenceOnce    BillRecurrence = "ONCE"
	RecurrenceWeekly  BillRecurrence = "WEEKLY"
	RecurrenceMonthly BillRecurrence = "MONTHLY"
)

// AutomaticBill is a user-configured recurring payment executed by the daily
// batch. PaymentAttempts counts failed executions since the bill last became
// due; once it reaches the configured cap the bill is terminally failed.
type AutomaticBill struct {
	BillID          string          `json:"billID"`
	UserID          string          `json:"userID"`
	AccountID       string          `json:"accountID"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	DueDate         time.Time       `json:"dueDate"`
	Recurrence      BillRecurrence  `json:"recurrence"`
	PaymentAttempts int             `json:"paymentAttempts"`
	Status          BillStatus      `json:"status"`
	Priority        int             `json:"priority"` // 1 = highest
	AuditFields
}

// BillPaymentOutcome reports the result of a single payment execution.
type BillPaymentOutcome string

const (
	BillPaymentSucceeded         BillPaymentOutcome = "SUCCEEDED"
	BillPaymentInsufficientFunds BillPaymentOutcome = "INSUFFICIENT_FUNDS"
)

// NextDueDate returns the due date after a successful payment, or the zero
// time for non-recurring bills.
func (b AutomaticBill) NextDueDate() time.Time {
	switch b.Recurrence {
	case RecurrenceWeekly:
		return b.DueDate.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		return b.DueDate.AddDate(0, 1, 0)
	default:
		return time.Time{}
	}
}
