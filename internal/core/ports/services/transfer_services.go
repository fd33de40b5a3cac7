package services

import (
	"context"
	"time"

	"github.com/afrimoni/remit_backend/internal/core/domain"
	"github.com/afrimoni/remit_backend/internal/dto"
)

// TransferSvcFacade orchestrates money movement between accounts.
type TransferSvcFacade interface {
	// ExecuteTransfer runs the debit/credit sequence for one transfer on
	// behalf of the authenticated user. The sender is always debited first;
	// any failure after the debit is compensated before the error surfaces.
	ExecuteTransfer(ctx context.Context, req dto.CreateTransferRequest, requestingUserID string) (*dto.TransferResult, error)

	// ClaimTransfer redeems a pending transfer by claim code, crediting the
	// claimant's account.
	ClaimTransfer(ctx context.Context, req dto.ClaimTransferRequest, requestingUserID string) (*dto.TransferResult, error)

	// ExpirePendingTransfers expires unclaimed pending transfers past their
	// TTL and refunds the senders. Returns the number expired.
	ExpirePendingTransfers(ctx context.Context, now time.Time) (int, error)

	// ListTransfers returns a page of transfers touching the given account.
	ListTransfers(ctx context.Context, params dto.ListTransfersParams, requestingUserID string) (*dto.ListTransfersResponse, error)

	// GetTransferByID fetches a single settled transfer.
	GetTransferByID(ctx context.Context, transferID string, requestingUserID string) (*domain.Transfer, error)
}
