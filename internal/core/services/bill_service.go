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

// billService manages automatic bills and runs the daily batch: a reminder
// pass for bills due tomorrow, a due pass executing today's bills by
// priority, and a retry pass for past-due bills under the attempt cap.
type billService struct {
	billRepo         portsrepo.BillRepository
	notificationRepo portsrepo.NotificationRepository
	accountRepo      portsrepo.AccountRepository
	transferSvc      portssvc.TransferSvcFacade
	maxAttempts      int
}

// NewBillService creates a new BillService. transferSvc may be nil in tests
// that do not exercise pending-transfer expiry.
func NewBillService(billRepo portsrepo.BillRepository, notificationRepo portsrepo.NotificationRepository, accountRepo portsrepo.AccountRepository, transferSvc portssvc.TransferSvcFacade, maxAttempts int) portssvc.BillSvcFacade {
	return &billService{
		billRepo:         billRepo,
		notificationRepo: notificationRepo,
		accountRepo:      accountRepo,
		transferSvc:      transferSvc,
		maxAttempts:      maxAttempts,
	}
}

var _ portssvc.BillSvcFacade = (*billService)(nil)

// CreateBill implements portssvc.BillSvcFacade.
func (s *billService) CreateBill(ctx context.Context, req dto.CreateBillRequest, creatorUserID string) (*dto.BillResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != creatorUserID {
		return nil, apperrors.ErrForbidden
	}
	if account.CurrencyCode != req.CurrencyCode {
		return nil, fmt.Errorf("%w: account currency %s does not match bill currency %s", apperrors.ErrValidation, account.CurrencyCode, req.CurrencyCode)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) || !req.Amount.IsInteger() {
		return nil, apperrors.ErrInvalidAmount
	}

	now := time.Now().UTC()
	priority := req.Priority
	if priority <= 0 {
		priority = 5
	}

	bill := domain.AutomaticBill{
		BillID:       uuid.NewString(),
		UserID:       creatorUserID,
		AccountID:    req.AccountID,
		Name:         req.Name,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		DueDate:      req.DueDate.UTC().Truncate(24 * time.Hour),
		Recurrence:   domain.BillRecurrence(req.Recurrence),
		Status:       domain.BillPending,
		Priority:     priority,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.billRepo.SaveBill(ctx, bill); err != nil {
		logger.Error("Failed to save bill", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	resp := dto.ToBillResponse(&bill)
	return &resp, nil
}

// ListBills implements portssvc.BillSvcFacade.
func (s *billService) ListBills(ctx context.Context, requestingUserID string) ([]dto.BillResponse, error) {
	bills, err := s.billRepo.ListBillsByUserID(ctx, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return dto.ToBillResponses(bills), nil
}

// GetBillByID implements portssvc.BillSvcFacade. Existence is obscured from
// non-owners.
func (s *billService) GetBillByID(ctx context.Context, billID string, requestingUserID string) (*dto.BillResponse, error) {
	bill, err := s.billRepo.FindBillByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.UserID != requestingUserID {
		return nil, apperrors.ErrNotFound
	}
	resp := dto.ToBillResponse(bill)
	return &resp, nil
}

// ListNotifications implements portssvc.BillSvcFacade.
func (s *billService) ListNotifications(ctx context.Context, requestingUserID string, limit int) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.ListNotificationsByUserID(ctx, requestingUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// RunDailyBatch implements portssvc.BillSvcFacade. Each pass catches and
// logs per-bill errors so a single bad bill never aborts the batch.
func (s *billService) RunDailyBatch(ctx context.Context, now time.Time) (*dto.BillBatchSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	today := now.UTC().Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)
	summary := &dto.BillBatchSummary{}

	s.runReminderPass(ctx, today, tomorrow, summary)
	s.runDuePass(ctx, today, now, summary)
	s.runRetryPass(ctx, today, now, summary)

	if s.transferSvc != nil {
		expired, err := s.transferSvc.ExpirePendingTransfers(ctx, now)
		if err != nil {
			logger.Error("Pending transfer expiry failed", slog.String("error", err.Error()))
		}
		summary.PendingTransfersExpired = expired
	}

	logger.Info("Daily bill batch completed",
		slog.Int("reminders", summary.RemindersSent),
		slog.Int("due_processed", summary.DueBillsProcessed),
		slog.Int("retries", summary.RetriesAttempted),
		slog.Int("succeeded", summary.PaymentsSucceeded),
		slog.Int("failed", summary.PaymentsFailed),
		slog.Int("marked_failed", summary.BillsMarkedFailed))

	return summary, nil
}

// runReminderPass notifies users about bills due tomorrow, once per day.
func (s *billService) runReminderPass(ctx context.Context, today, tomorrow time.Time, summary *dto.BillBatchSummary) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bills, err := s.billRepo.FindBillsDueOn(ctx, tomorrow)
	if err != nil {
		logger.Error("Reminder pass: failed to list bills due tomorrow", slog.String("error", err.Error()))
		return
	}

	for _, bill := range bills {
		sent, err := s.notifyOncePerDay(ctx, bill, domain.NotificationBillReminder, today,
			fmt.Sprintf("Your bill %q (%s %s) is due tomorrow.", bill.Name, bill.Amount, bill.CurrencyCode))
		if err != nil {
			logger.Error("Reminder pass: notification failed", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
			continue
		}
		if sent {
			summary.RemindersSent++
		}
	}
}

// runDuePass notifies and executes bills due today, highest priority first.
func (s *billService) runDuePass(ctx context.Context, today, now time.Time, summary *dto.BillBatchSummary) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bills, err := s.billRepo.FindBillsDueOn(ctx, today)
	if err != nil {
		logger.Error("Due pass: failed to list bills due today", slog.String("error", err.Error()))
		return
	}

	for _, bill := range bills {
		if _, err := s.notifyOncePerDay(ctx, bill, domain.NotificationBillDue, today,
			fmt.Sprintf("Your bill %q (%s %s) is due today.", bill.Name, bill.Amount, bill.CurrencyCode)); err != nil {
			logger.Error("Due pass: notification failed", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
		}

		summary.DueBillsProcessed++
		s.attemptPayment(ctx, bill, now, summary)
	}
}

// runRetryPass re-attempts past-due bills that have failed before but are
// still under the attempt cap.
func (s *billService) runRetryPass(ctx context.Context, today, now time.Time, summary *dto.BillBatchSummary) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bills, err := s.billRepo.FindRetryableBills(ctx, today, s.maxAttempts)
	if err != nil {
		logger.Error("Retry pass: failed to list retryable bills", slog.String("error", err.Error()))
		return
	}

	for _, bill := range bills {
		summary.RetriesAttempted++
		s.attemptPayment(ctx, bill, now, summary)
	}
}

// attemptPayment runs one payment execution and, when a failed attempt
// reaches the cap, marks the bill terminally failed.
func (s *billService) attemptPayment(ctx context.Context, bill domain.AutomaticBill, now time.Time, summary *dto.BillBatchSummary) {
	logger := middleware.GetLoggerFromCtx(ctx)

	outcome, err := s.billRepo.ExecutePayment(ctx, bill.BillID, now)
	if err != nil {
		logger.Error("Payment execution failed", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
		summary.PaymentsFailed++
		return
	}

	switch outcome {
	case domain.BillPaymentSucceeded:
		summary.PaymentsSucceeded++
	case domain.BillPaymentInsufficientFunds:
		summary.PaymentsFailed++
		// The execution recorded the failed attempt; at the cap the bill
		// transitions to a terminal FAILED status.
		if bill.PaymentAttempts+1 >= s.maxAttempts {
			if err := s.billRepo.MarkBillFailed(ctx, bill.BillID, now); err != nil {
				logger.Error("Failed to mark bill as failed", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
				return
			}
			summary.BillsMarkedFailed++
			if _, err := s.notifyOncePerDay(ctx, bill, domain.NotificationBillFailed, now.UTC().Truncate(24*time.Hour),
				fmt.Sprintf("Automatic payment for %q was cancelled after %d failed attempts.", bill.Name, s.maxAttempts)); err != nil {
				logger.Error("Failed-bill notification failed", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
			}
		}
	}
}

// notifyOncePerDay records a notification unless one of the same kind already
// exists for the bill today. Returns whether a notification was created.
func (s *billService) notifyOncePerDay(ctx context.Context, bill domain.AutomaticBill, kind domain.NotificationKind, day time.Time, message string) (bool, error) {
	exists, err := s.notificationRepo.HasNotificationForDay(ctx, bill.BillID, kind, day)
	if err != nil {
		return false, fmt.Errorf("failed to check notification existence: %w", err)
	}
	if exists {
		return false, nil
	}

	billID := bill.BillID
	notification := domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         bill.UserID,
		BillID:         &billID,
		Kind:           kind,
		Message:        message,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.notificationRepo.SaveNotification(ctx, notification); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("failed to save notification: %w", err)
	}
	return true, nil
}
