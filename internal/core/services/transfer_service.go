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
	"github.com/afrimoni/remit_backend/internal/core/fees"
	portsrepo "github.com/afrimoni/remit_backend/internal/core/ports/repositories"
	portssvc "github.com/afrimoni/remit_backend/internal/core/ports/services"
	"github.com/afrimoni/remit_backend/internal/dto"
	"github.com/afrimoni/remit_backend/internal/middleware"
	"github.com/afrimoni/remit_backend/internal/utils"
)

const (
	transferStatusCompleted = "completed"
	transferStatusPending   = "pending"

	expiryScanBatchSize = 500
)

// transferService orchestrates money movement: fee calculation, the atomic
// debit/credit sequence, pending-transfer creation, claim and expiry.
//
// Ordering is fixed: the sender debit always happens before any credit or
// pending-record creation, and the settled Transfer record is written last.
// Atomicity per balance mutation is the repository's increment primitive; the
// service never reads a balance, adjusts it locally and writes it back.
type transferService struct {
	accountRepo  portsrepo.AccountRepository
	transferRepo portsrepo.TransferRepository
	pendingTTL   time.Duration
}

// NewTransferService creates a new TransferService.
func NewTransferService(accountRepo portsrepo.AccountRepository, transferRepo portsrepo.TransferRepository, pendingTTL time.Duration) portssvc.TransferSvcFacade {
	return &transferService{
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		pendingTTL:   pendingTTL,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// ExecuteTransfer implements portssvc.TransferSvcFacade.
//
// A persistence failure of the settled Transfer record after both balance
// mutations succeeded is logged and tolerated: the funds are already
// correctly settled and rolling them back for a bookkeeping miss would be
// worse than the missing record.
func (s *transferService) ExecuteTransfer(ctx context.Context, req dto.CreateTransferRequest, requestingUserID string) (*dto.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sender, err := s.accountRepo.FindAccountByID(ctx, req.SenderAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch sender account: %w", err)
	}
	if sender.UserID != requestingUserID {
		logger.Warn("Transfer attempted from account not owned by caller", slog.String("account_id", sender.AccountID))
		return nil, apperrors.ErrForbidden
	}
	if !sender.IsActive {
		return nil, fmt.Errorf("%w: sender account is inactive", apperrors.ErrValidation)
	}
	if sender.CurrencyCode != req.CurrencyCode {
		return nil, fmt.Errorf("%w: account currency %s does not match transfer currency %s", apperrors.ErrValidation, sender.CurrencyCode, req.CurrencyCode)
	}

	feeResult, err := fees.Calculate(req.Amount, sender.Country, req.RecipientCountry, sender.Role)
	if err != nil {
		return nil, err
	}
	total := req.Amount.Add(feeResult.Fee)

	// 1. Balance check. No mutation has happened yet, so failing here needs
	// no compensation.
	if sender.Balance.LessThan(total) {
		logger.Info("Transfer rejected for insufficient funds",
			slog.String("account_id", sender.AccountID),
			slog.String("required", total.String()),
			slog.String("balance", sender.Balance.String()))
		return nil, apperrors.ErrInsufficientFunds
	}

	now := time.Now().UTC()

	// 2. Debit sender by amount + fee. On error nothing was mutated.
	if err := s.accountRepo.IncrementBalance(ctx, sender.AccountID, total.Neg(), requestingUserID, now); err != nil {
		logger.Error("Failed to debit sender", slog.String("account_id", sender.AccountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDebitFailed, err)
	}

	// 3. Resolve the recipient. Any lookup failure is treated as "recipient
	// not found" and routed to the pending path; the funds are already held.
	recipient, err := s.accountRepo.FindAccountByPhone(ctx, req.RecipientPhone)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Recipient lookup failed, creating pending transfer", slog.String("error", err.Error()))
		}
		return s.createPendingTransfer(ctx, sender, req, feeResult, total, requestingUserID, now)
	}

	return s.completeDirectTransfer(ctx, sender, recipient, req, feeResult, total, requestingUserID, now)
}

func (s *transferService) completeDirectTransfer(ctx context.Context, sender, recipient *domain.Account, req dto.CreateTransferRequest, feeResult fees.Result, total decimal.Decimal, requestingUserID string, now time.Time) (*dto.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// 4. Credit the recipient by the transfer amount.
	if err := s.accountRepo.IncrementBalance(ctx, recipient.AccountID, req.Amount, requestingUserID, now); err != nil {
		logger.Error("Failed to credit recipient, compensating sender",
			slog.String("recipient_account_id", recipient.AccountID),
			slog.String("error", err.Error()))

		// Compensate: re-credit the sender with the full debited amount.
		if compErr := s.accountRepo.IncrementBalance(ctx, sender.AccountID, total, requestingUserID, now); compErr != nil {
			logger.Error("CRITICAL: compensation credit failed, manual reconciliation required",
				slog.String("sender_account_id", sender.AccountID),
				slog.String("debited_amount", total.String()),
				slog.String("credit_error", err.Error()),
				slog.String("compensation_error", compErr.Error()))
			return nil, apperrors.ErrCriticalRollback
		}
		return nil, apperrors.ErrCreditFailed
	}

	// Agent senders earn commission on international transfers; credited to
	// the commission balance, separate from spendable funds.
	if feeResult.AgentCommission.IsPositive() {
		if err := s.accountRepo.IncrementAgentCommission(ctx, sender.AccountID, feeResult.AgentCommission, requestingUserID, now); err != nil {
			logger.Error("Failed to credit agent commission",
				slog.String("account_id", sender.AccountID),
				slog.String("commission", feeResult.AgentCommission.String()),
				slog.String("error", err.Error()))
		}
	}

	transfer := domain.Transfer{
		TransferID:         uuid.NewString(),
		SenderAccountID:    sender.AccountID,
		RecipientAccountID: recipient.AccountID,
		Amount:             req.Amount,
		Fee:                feeResult.Fee,
		AgentCommission:    feeResult.AgentCommission,
		CurrencyCode:       req.CurrencyCode,
		Status:             domain.TransferCompleted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	// 5. Persist the settled record. Funds are already correct; a failure
	// here is a bookkeeping miss, not a reason to move money again.
	if err := s.transferRepo.SaveTransfer(ctx, transfer); err != nil {
		logger.Error("Transfer record persistence failed after successful settlement",
			slog.String("transfer_id", transfer.TransferID),
			slog.String("error", err.Error()))
	}

	logger.Info("Transfer completed",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("amount", req.Amount.String()),
		slog.String("fee", feeResult.Fee.String()))

	return &dto.TransferResult{
		Success:    true,
		TransferID: transfer.TransferID,
		Status:     transferStatusCompleted,
		Message:    "Transfer completed successfully",
	}, nil
}

func (s *transferService) createPendingTransfer(ctx context.Context, sender *domain.Account, req dto.CreateTransferRequest, feeResult fees.Result, total decimal.Decimal, requestingUserID string, now time.Time) (*dto.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	claimCode, err := utils.GenerateClaimCode()
	if err != nil {
		return nil, s.compensateOrEscalate(ctx, sender.AccountID, total, requestingUserID, now, err)
	}

	pending := domain.PendingTransfer{
		PendingTransferID: uuid.NewString(),
		SenderAccountID:   sender.AccountID,
		RecipientPhone:    req.RecipientPhone,
		Amount:            req.Amount,
		Fee:               feeResult.Fee,
		CurrencyCode:      req.CurrencyCode,
		ClaimCode:         claimCode,
		Status:            domain.PendingStatusPending,
		ExpiresAt:         now.Add(s.pendingTTL),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.transferRepo.SavePendingTransfer(ctx, pending); err != nil {
		logger.Error("Failed to persist pending transfer, compensating sender", slog.String("error", err.Error()))
		return nil, s.compensateOrEscalate(ctx, sender.AccountID, total, requestingUserID, now, err)
	}

	logger.Info("Pending transfer created",
		slog.String("pending_transfer_id", pending.PendingTransferID),
		slog.String("amount", req.Amount.String()))

	return &dto.TransferResult{
		Success:    true,
		TransferID: pending.PendingTransferID,
		Status:     transferStatusPending,
		ClaimCode:  &claimCode,
		Message:    "Recipient has no account yet; share the claim code to release the funds",
	}, nil
}

// compensateOrEscalate re-credits the sender after a post-debit failure.
// If the compensation itself fails the caller gets ErrCriticalRollback and
// the incident is logged for manual reconciliation.
func (s *transferService) compensateOrEscalate(ctx context.Context, senderAccountID string, total decimal.Decimal, requestingUserID string, now time.Time, cause error) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if compErr := s.accountRepo.IncrementBalance(ctx, senderAccountID, total, requestingUserID, now); compErr != nil {
		logger.Error("CRITICAL: compensation credit failed, manual reconciliation required",
			slog.String("sender_account_id", senderAccountID),
			slog.String("debited_amount", total.String()),
			slog.String("cause", cause.Error()),
			slog.String("compensation_error", compErr.Error()))
		return apperrors.ErrCriticalRollback
	}
	return fmt.Errorf("%w: %v", apperrors.ErrCreditFailed, cause)
}

// ClaimTransfer implements portssvc.TransferSvcFacade.
func (s *transferService) ClaimTransfer(ctx context.Context, req dto.ClaimTransferRequest, requestingUserID string) (*dto.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	pending, err := s.transferRepo.FindPendingTransferByClaimCode(ctx, req.ClaimCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrClaimCodeInvalid
		}
		return nil, fmt.Errorf("failed to look up claim code: %w", err)
	}
	now := time.Now().UTC()
	if pending.Status != domain.PendingStatusPending || now.After(pending.ExpiresAt) {
		return nil, apperrors.ErrClaimCodeInvalid
	}

	claimant, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch claimant account: %w", err)
	}
	if claimant.UserID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}
	if !claimant.IsActive {
		return nil, fmt.Errorf("%w: claimant account is inactive", apperrors.ErrValidation)
	}
	if claimant.CurrencyCode != pending.CurrencyCode {
		return nil, fmt.Errorf("%w: account currency %s does not match pending transfer currency %s", apperrors.ErrValidation, claimant.CurrencyCode, pending.CurrencyCode)
	}

	// Guarded PENDING -> CLAIMED transition; a concurrent claim loses here.
	if err := s.transferRepo.MarkPendingTransferClaimed(ctx, pending.PendingTransferID, claimant.AccountID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.ErrClaimCodeInvalid
		}
		return nil, fmt.Errorf("failed to claim pending transfer: %w", err)
	}

	if err := s.accountRepo.IncrementBalance(ctx, claimant.AccountID, pending.Amount, requestingUserID, now); err != nil {
		logger.Error("Failed to credit claimant, reverting claim",
			slog.String("pending_transfer_id", pending.PendingTransferID),
			slog.String("error", err.Error()))
		if revErr := s.transferRepo.RevertPendingTransferClaim(ctx, pending.PendingTransferID, now); revErr != nil {
			logger.Error("CRITICAL: failed to revert claim after failed credit, manual reconciliation required",
				slog.String("pending_transfer_id", pending.PendingTransferID),
				slog.String("revert_error", revErr.Error()))
			return nil, apperrors.ErrCriticalRollback
		}
		return nil, apperrors.ErrCreditFailed
	}

	transfer := domain.Transfer{
		TransferID:         uuid.NewString(),
		SenderAccountID:    pending.SenderAccountID,
		RecipientAccountID: claimant.AccountID,
		Amount:             pending.Amount,
		Fee:                pending.Fee,
		AgentCommission:    decimal.Zero,
		CurrencyCode:       pending.CurrencyCode,
		Status:             domain.TransferCompleted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}
	if err := s.transferRepo.SaveTransfer(ctx, transfer); err != nil {
		logger.Error("Transfer record persistence failed after successful claim",
			slog.String("transfer_id", transfer.TransferID),
			slog.String("error", err.Error()))
	}

	logger.Info("Pending transfer claimed",
		slog.String("pending_transfer_id", pending.PendingTransferID),
		slog.String("claimant_account_id", claimant.AccountID))

	return &dto.TransferResult{
		Success:    true,
		TransferID: transfer.TransferID,
		Status:     transferStatusCompleted,
		Message:    "Pending transfer claimed successfully",
	}, nil
}

// ExpirePendingTransfers implements portssvc.TransferSvcFacade. Refund
// failures are logged at the highest severity and do not stop the scan; the
// row stays EXPIRED so the refund can be replayed by reconciliation.
func (s *transferService) ExpirePendingTransfers(ctx context.Context, now time.Time) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expired, err := s.transferRepo.ListExpiredPendingTransfers(ctx, now, expiryScanBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired pending transfers: %w", err)
	}

	count := 0
	for _, pending := range expired {
		if err := s.transferRepo.MarkPendingTransferExpired(ctx, pending.PendingTransferID, now); err != nil {
			if !errors.Is(err, apperrors.ErrConflict) {
				logger.Error("Failed to expire pending transfer", slog.String("pending_transfer_id", pending.PendingTransferID), slog.String("error", err.Error()))
			}
			continue
		}

		refund := pending.Amount.Add(pending.Fee)
		if err := s.accountRepo.IncrementBalance(ctx, pending.SenderAccountID, refund, pending.CreatedBy, now); err != nil {
			logger.Error("CRITICAL: refund for expired pending transfer failed, manual reconciliation required",
				slog.String("pending_transfer_id", pending.PendingTransferID),
				slog.String("sender_account_id", pending.SenderAccountID),
				slog.String("refund", refund.String()),
				slog.String("error", err.Error()))
			continue
		}
		count++
	}

	if count > 0 {
		logger.Info("Expired pending transfers refunded", slog.Int("count", count))
	}
	return count, nil
}

// ListTransfers implements portssvc.TransferSvcFacade.
func (s *transferService) ListTransfers(ctx context.Context, params dto.ListTransfersParams, requestingUserID string) (*dto.ListTransfersResponse, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, params.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	transfers, nextToken, err := s.transferRepo.ListTransfersByAccountID(ctx, params.AccountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transfers: %w", err)
	}

	return &dto.ListTransfersResponse{
		Transfers: dto.ToTransferResponses(transfers),
		NextToken: nextToken,
	}, nil
}

// GetTransferByID implements portssvc.TransferSvcFacade.
func (s *transferService) GetTransferByID(ctx context.Context, transferID string, requestingUserID string) (*domain.Transfer, error) {
	transfer, err := s.transferRepo.FindTransferByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	for _, accountID := range []string{transfer.SenderAccountID, transfer.RecipientAccountID} {
		account, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err == nil && account.UserID == requestingUserID {
			return transfer, nil
		}
	}
	// Obscure existence from non-participants.
	return nil, apperrors.ErrNotFound
}
