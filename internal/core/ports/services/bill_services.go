package services

import (
	"context"
	"time"

	"github.com/afrimoni/remit_backend/internal/core/domain"
	"github.com/afrimoni/remit_backend/internal/dto"
)

// BillSvcFacade manages automatic bills and runs the daily batch.
type BillSvcFacade interface {
	CreateBill(ctx context.Context, req dto.CreateBillRequest, creatorUserID string) (*dto.BillResponse, error)
	ListBills(ctx context.Context, requestingUserID string) ([]dto.BillResponse, error)
	GetBillByID(ctx context.Context, billID string, requestingUserID string) (*dto.BillResponse, error)
	ListNotifications(ctx context.Context, requestingUserID string, limit int) ([]domain.Notification, error)

	// RunDailyBatch performs the reminder, due and retry passes for the day
	// containing now. Per-bill failures are logged and skipped; the batch
	// never aborts part-way.
	RunDailyBatch(ctx context.Context, now time.Time) (*dto.BillBatchSummary, error)
}
