package repositories

import (
	"context"
	"time"

	"github.com/afrimoni/remit_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository persists wallet accounts.
//
// IncrementBalance and IncrementAgentCommission are the only balance mutation
// primitives in the system; they apply a signed delta server-side in a single
// statement so concurrent transfers touching the same account cannot lose
// updates.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByPhone(ctx context.Context, phone string) (*domain.Account, error)
	ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error)
	IncrementBalance(ctx context.Context, accountID string, delta decimal.Decimal, updaterUserID string, now time.Time) error
	IncrementAgentCommission(ctx context.Context, accountID string, delta decimal.Decimal, updaterUserID string, now time.Time) error
	DeactivateAccount(ctx context.Context, accountID string, updaterUserID string, now time.Time) error
}

// TransferRepository persists settled transfers and claimable pending
// transfers.
type TransferRepository interface {
	SaveTransfer(ctx context.Context, transfer domain.Transfer) error
	FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error)
	ListTransfersByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transfer, *string, error)

	SavePendingTransfer(ctx context.Context, pending domain.PendingTransfer) error
	FindPendingTransferByClaimCode(ctx context.Context, claimCode string) (*domain.PendingTransfer, error)
	// MarkPendingTransferClaimed transitions PENDING -> CLAIMED with a guarded
	// update; apperrors.ErrConflict if the row was not in PENDING.
	MarkPendingTransferClaimed(ctx context.Context, pendingTransferID string, claimantAccountID string, now time.Time) error
	// RevertPendingTransferClaim undoes a claim transition after a failed
	// claimant credit, putting the row back to PENDING.
	RevertPendingTransferClaim(ctx context.Context, pendingTransferID string, now time.Time) error
	ListExpiredPendingTransfers(ctx context.Context, asOf time.Time, limit int) ([]domain.PendingTransfer, error)
	MarkPendingTransferExpired(ctx context.Context, pendingTransferID string, now time.Time) error
}

// BillRepository persists automatic bills and executes payment attempts.
type BillRepository interface {
	SaveBill(ctx context.Context, bill domain.AutomaticBill) error
	FindBillByID(ctx context.Context, billID string) (*domain.AutomaticBill, error)
	ListBillsByUserID(ctx context.Context, userID string) ([]domain.AutomaticBill, error)
	// FindBillsDueOn returns PENDING bills due on the given day, ordered by
	// ascending priority (1 = highest).
	FindBillsDueOn(ctx context.Context, day time.Time) ([]domain.AutomaticBill, error)
	// FindRetryableBills returns PENDING bills past due with
	// 0 < payment_attempts < maxAttempts.
	FindRetryableBills(ctx context.Context, before time.Time, maxAttempts int) ([]domain.AutomaticBill, error)
	// ExecutePayment runs one payment attempt inside a single database
	// transaction: lock the account row, check funds, debit, complete or
	// reschedule the bill, or record the failed attempt.
	ExecutePayment(ctx context.Context, billID string, now time.Time) (domain.BillPaymentOutcome, error)
	MarkBillFailed(ctx context.Context, billID string, now time.Time) error
}

// NotificationRepository persists user notifications. Existence checks give
// the daily batch its per-day idempotence.
type NotificationRepository interface {
	SaveNotification(ctx context.Context, notification domain.Notification) error
	HasNotificationForDay(ctx context.Context, billID string, kind domain.NotificationKind, day time.Time) (bool, error)
	ListNotificationsByUserID(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}

// UserRepository persists users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindUserByProviderID(ctx context.Context, provider string, providerUserID string) (*domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry *time.Time) error
}

// CurrencyRepository persists currency reference data.
type CurrencyRepository interface {
	SaveCurrency(ctx context.Context, currency domain.Currency) error
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// RepositoryProvider bundles all repositories for dependency injection.
type RepositoryProvider struct {
	AccountRepo      AccountRepository
	TransferRepo     TransferRepository
	BillRepo         BillRepository
	NotificationRepo NotificationRepository
	UserRepo         UserRepository
	CurrencyRepo     CurrencyRepository
}
