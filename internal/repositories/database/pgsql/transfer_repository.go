package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	"github.com/afrimoni/remit_backend/internal/core/domain"
	portsrepo "github.com/afrimoni/remit_backend/internal/core/ports/repositories"
	"github.com/afrimoni/remit_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransferRepository struct {
	pool *pgxpool.Pool
}

// newPgxTransferRepository creates a new repository for transfer data.
func newPgxTransferRepository(pool *pgxpool.Pool) portsrepo.TransferRepository {
	return &PgxTransferRepository{pool: pool}
}

// Ensure PgxTransferRepository implements portsrepo.TransferRepository
var _ portsrepo.TransferRepository = (*PgxTransferRepository)(nil)

const transferColumns = `transfer_id, sender_account_id, recipient_account_id, amount, fee, agent_commission, currency_code, status, is_deleted, created_at, created_by, last_updated_at, last_updated_by`

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var t domain.Transfer
	err := row.Scan(
		&t.TransferID,
		&t.SenderAccountID,
		&t.RecipientAccountID,
		&t.Amount,
		&t.Fee,
		&t.AgentCommission,
		&t.CurrencyCode,
		&t.Status,
		&t.IsDeleted,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SaveTransfer inserts a settled transfer record.
func (r *PgxTransferRepository) SaveTransfer(ctx context.Context, transfer domain.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`

	_, err := r.pool.Exec(ctx, query,
		transfer.TransferID,
		transfer.SenderAccountID,
		transfer.RecipientAccountID,
		transfer.Amount,
		transfer.Fee,
		transfer.AgentCommission,
		transfer.CurrencyCode,
		transfer.Status,
		transfer.IsDeleted,
		transfer.CreatedAt,
		transfer.CreatedBy,
		transfer.LastUpdatedAt,
		transfer.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transfer with ID %s already exists", apperrors.ErrDuplicate, transfer.TransferID)
		}
		return fmt.Errorf("failed to save transfer %s: %w", transfer.TransferID, err)
	}
	return nil
}

// FindTransferByID retrieves a transfer by its ID.
func (r *PgxTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE transfer_id = $1 AND is_deleted = FALSE;`

	t, err := scanTransfer(r.pool.QueryRow(ctx, query, transferID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transfer by ID %s: %w", transferID, err)
	}
	return t, nil
}

// ListTransfersByAccountID retrieves transfers where the account is sender or
// recipient, newest first. nextToken is an opaque cursor wrapping the
// created_at of the last row from the previous page.
func (r *PgxTransferRepository) ListTransfersByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transfer, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE (sender_account_id = $1 OR recipient_account_id = $1) AND is_deleted = FALSE
	`
	args := []interface{}{accountID}

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += ` AND created_at < $2`
		args = append(args, cursor)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transfers for account %s: %w", accountID, err)
	}
	defer rows.Close()

	transfers := []domain.Transfer{}
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transfer row: %w", err)
		}
		transfers = append(transfers, *t)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating transfer rows: %w", rows.Err())
	}

	var newNextToken *string
	if len(transfers) > limit {
		transfers = transfers[:limit]
		token := pagination.EncodeDateBasedToken(transfers[len(transfers)-1].CreatedAt)
		newNextToken = &token
	}
	return transfers, newNextToken, nil
}

const pendingTransferColumns = `pending_transfer_id, sender_account_id, recipient_phone, amount, fee, currency_code, claim_code, status, claimed_by_account_id, expires_at, created_at, created_by, last_updated_at, last_updated_by`

func scanPendingTransfer(row pgx.Row) (*domain.PendingTransfer, error) {
	var p domain.PendingTransfer
	err := row.Scan(
		&p.PendingTransferID,
		&p.SenderAccountID,
		&p.RecipientPhone,
		&p.Amount,
		&p.Fee,
		&p.CurrencyCode,
		&p.ClaimCode,
		&p.Status,
		&p.ClaimedByAccountID,
		&p.ExpiresAt,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePendingTransfer inserts a claimable pending transfer.
func (r *PgxTransferRepository) SavePendingTransfer(ctx context.Context, pending domain.PendingTransfer) error {
	query := `
		INSERT INTO pending_transfers (` + pendingTransferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`

	_, err := r.pool.Exec(ctx, query,
		pending.PendingTransferID,
		pending.SenderAccountID,
		pending.RecipientPhone,
		pending.Amount,
		pending.Fee,
		pending.CurrencyCode,
		pending.ClaimCode,
		pending.Status,
		pending.ClaimedByAccountID,
		pending.ExpiresAt,
		pending.CreatedAt,
		pending.CreatedBy,
		pending.LastUpdatedAt,
		pending.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The claim code column is unique; a collision is a duplicate.
			return fmt.Errorf("%w: claim code collision", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save pending transfer %s: %w", pending.PendingTransferID, err)
	}
	return nil
}

// FindPendingTransferByClaimCode retrieves a pending transfer by its claim code.
func (r *PgxTransferRepository) FindPendingTransferByClaimCode(ctx context.Context, claimCode string) (*domain.PendingTransfer, error) {
	query := `SELECT ` + pendingTransferColumns + ` FROM pending_transfers WHERE claim_code = $1;`

	p, err := scanPendingTransfer(r.pool.QueryRow(ctx, query, claimCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending transfer by claim code: %w", err)
	}
	return p, nil
}

// MarkPendingTransferClaimed transitions a pending transfer to CLAIMED. The
// status guard in the WHERE clause makes concurrent claims lose with
// ErrConflict instead of double-crediting.
func (r *PgxTransferRepository) MarkPendingTransferClaimed(ctx context.Context, pendingTransferID string, claimantAccountID string, now time.Time) error {
	query := `
		UPDATE pending_transfers
		SET status = $2, claimed_by_account_id = $3, last_updated_at = $4, last_updated_by = $3
		WHERE pending_transfer_id = $1 AND status = $5;
	`

	cmdTag, err := r.pool.Exec(ctx, query,
		pendingTransferID,
		domain.PendingStatusClaimed,
		claimantAccountID,
		now,
		domain.PendingStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark pending transfer %s claimed: %w", pendingTransferID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: pending transfer %s is not claimable", apperrors.ErrConflict, pendingTransferID)
	}
	return nil
}

// RevertPendingTransferClaim puts a claimed pending transfer back to PENDING
// after a failed claimant credit.
func (r *PgxTransferRepository) RevertPendingTransferClaim(ctx context.Context, pendingTransferID string, now time.Time) error {
	query := `
		UPDATE pending_transfers
		SET status = $2, claimed_by_account_id = NULL, last_updated_at = $3
		WHERE pending_transfer_id = $1 AND status = $4;
	`

	cmdTag, err := r.pool.Exec(ctx, query,
		pendingTransferID,
		domain.PendingStatusPending,
		now,
		domain.PendingStatusClaimed,
	)
	if err != nil {
		return fmt.Errorf("failed to revert claim on pending transfer %s: %w", pendingTransferID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: pending transfer %s is not in claimed state", apperrors.ErrConflict, pendingTransferID)
	}
	return nil
}

// ListExpiredPendingTransfers returns PENDING transfers whose expiry has
// passed, oldest first.
func (r *PgxTransferRepository) ListExpiredPendingTransfers(ctx context.Context, asOf time.Time, limit int) ([]domain.PendingTransfer, error) {
	query := `
		SELECT ` + pendingTransferColumns + `
		FROM pending_transfers
		WHERE status = $1 AND expires_at <= $2
		ORDER BY expires_at
		LIMIT $3;
	`

	rows, err := r.pool.Query(ctx, query, domain.PendingStatusPending, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired pending transfers: %w", err)
	}
	defer rows.Close()

	pendings := []domain.PendingTransfer{}
	for rows.Next() {
		p, err := scanPendingTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending transfer row: %w", err)
		}
		pendings = append(pendings, *p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating pending transfer rows: %w", rows.Err())
	}
	return pendings, nil
}

// MarkPendingTransferExpired transitions a pending transfer to EXPIRED with
// the same status guard as claiming.
func (r *PgxTransferRepository) MarkPendingTransferExpired(ctx context.Context, pendingTransferID string, now time.Time) error {
	query := `
		UPDATE pending_transfers
		SET status = $2, last_updated_at = $3
		WHERE pending_transfer_id = $1 AND status = $4;
	`

	cmdTag, err := r.pool.Exec(ctx, query,
		pendingTransferID,
		domain.PendingStatusExpired,
		now,
		domain.PendingStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark pending transfer %s expired: %w", pendingTransferID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: pending transfer %s is not in pending state", apperrors.ErrConflict, pendingTransferID)
	}
	return nil
}
