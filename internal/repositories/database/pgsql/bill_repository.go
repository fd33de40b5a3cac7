package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	"github.com/afrimoni/remit_backend/internal/core/domain"
	portsrepo "github.com/afrimoni/remit_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxBillRepository struct {
	BaseRepository
}

// newPgxBillRepository creates a new repository for automatic bill data.
func newPgxBillRepository(pool *pgxpool.Pool) portsrepo.BillRepository {
	return &PgxBillRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBillRepository implements portsrepo.BillRepository
var _ portsrepo.BillRepository = (*PgxBillRepository)(nil)

const billColumns = `bill_id, user_id, account_id, name, amount, currency_code, due_date, recurrence, payment_attempts, status, priority, created_at, created_by, last_updated_at, last_updated_by`

func scanBill(row pgx.Row) (*domain.AutomaticBill, error) {
	var b domain.AutomaticBill
	err := row.Scan(
		&b.BillID,
		&b.UserID,
		&b.AccountID,
		&b.Name,
		&b.Amount,
		&b.CurrencyCode,
		&b.DueDate,
		&b.Recurrence,
		&b.PaymentAttempts,
		&b.Status,
		&b.Priority,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveBill inserts a new automatic bill.
func (r *PgxBillRepository) SaveBill(ctx context.Context, bill domain.AutomaticBill) error {
	query := `
		INSERT INTO automatic_bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`

	_, err := r.Pool.Exec(ctx, query,
		bill.BillID,
		bill.UserID,
		bill.AccountID,
		bill.Name,
		bill.Amount,
		bill.CurrencyCode,
		bill.DueDate,
		bill.Recurrence,
		bill.PaymentAttempts,
		bill.Status,
		bill.Priority,
		bill.CreatedAt,
		bill.CreatedBy,
		bill.LastUpdatedAt,
		bill.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: bill with ID %s already exists", apperrors.ErrDuplicate, bill.BillID)
		}
		return fmt.Errorf("failed to save bill %s: %w", bill.BillID, err)
	}
	return nil
}

// FindBillByID retrieves a bill by its ID.
func (r *PgxBillRepository) FindBillByID(ctx context.Context, billID string) (*domain.AutomaticBill, error) {
	query := `SELECT ` + billColumns + ` FROM automatic_bills WHERE bill_id = $1;`

	b, err := scanBill(r.Pool.QueryRow(ctx, query, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bill by ID %s: %w", billID, err)
	}
	return b, nil
}

// ListBillsByUserID retrieves all bills configured by a user.
func (r *PgxBillRepository) ListBillsByUserID(ctx context.Context, userID string) ([]domain.AutomaticBill, error) {
	query := `SELECT ` + billColumns + ` FROM automatic_bills WHERE user_id = $1 ORDER BY due_date, priority;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectBills(rows)
}

// FindBillsDueOn returns PENDING bills due on the given calendar day, highest
// priority first.
func (r *PgxBillRepository) FindBillsDueOn(ctx context.Context, day time.Time) ([]domain.AutomaticBill, error) {
	dayStart := day.Truncate(24 * time.Hour)
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT ` + billColumns + `
		FROM automatic_bills
		WHERE status = $1 AND due_date >= $2 AND due_date < $3
		ORDER BY priority, due_date;
	`

	rows, err := r.Pool.Query(ctx, query, domain.BillPending, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills due on %s: %w", dayStart.Format("2006-01-02"), err)
	}
	defer rows.Close()

	return collectBills(rows)
}

// FindRetryableBills returns PENDING bills that are past due with at least one
// failed attempt and fewer than maxAttempts.
func (r *PgxBillRepository) FindRetryableBills(ctx context.Context, before time.Time, maxAttempts int) ([]domain.AutomaticBill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM automatic_bills
		WHERE status = $1 AND due_date < $2 AND payment_attempts > 0 AND payment_attempts < $3
		ORDER BY priority, due_date;
	`

	rows, err := r.Pool.Query(ctx, query, domain.BillPending, before, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to query retryable bills: %w", err)
	}
	defer rows.Close()

	return collectBills(rows)
}

func collectBills(rows pgx.Rows) ([]domain.AutomaticBill, error) {
	bills := []domain.AutomaticBill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill row: %w", err)
		}
		bills = append(bills, *b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating bill rows: %w", rows.Err())
	}
	return bills, nil
}

// ExecutePayment runs one payment attempt for a bill inside a single
// transaction. It locks the bill and the paying account, checks funds, then
// either debits and completes/reschedules the bill or records the failed
// attempt. Both outcomes commit; only infrastructure failures roll back.
func (r *PgxBillRepository) ExecutePayment(ctx context.Context, billID string, now time.Time) (domain.BillPaymentOutcome, error) {
	var outcome domain.BillPaymentOutcome

	err := r.RunInTx(ctx, func(tx pgx.Tx) error {
		lockBillQuery := `SELECT ` + billColumns + ` FROM automatic_bills WHERE bill_id = $1 FOR UPDATE;`
		bill, err := scanBill(tx.QueryRow(ctx, lockBillQuery, billID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to lock bill %s: %w", billID, err)
		}
		if bill.Status != domain.BillPending {
			return fmt.Errorf("%w: bill %s is not pending", apperrors.ErrConflict, billID)
		}

		var balance decimal.Decimal
		lockAccountQuery := `SELECT balance FROM accounts WHERE account_id = $1 AND is_active = TRUE FOR UPDATE;`
		if err := tx.QueryRow(ctx, lockAccountQuery, bill.AccountID).Scan(&balance); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: paying account %s not found or inactive", apperrors.ErrNotFound, bill.AccountID)
			}
			return fmt.Errorf("failed to lock account %s: %w", bill.AccountID, err)
		}

		if balance.LessThan(bill.Amount) {
			attemptQuery := `
				UPDATE automatic_bills
				SET payment_attempts = payment_attempts + 1, last_updated_at = $2
				WHERE bill_id = $1;
			`
			if _, err := tx.Exec(ctx, attemptQuery, billID, now); err != nil {
				return fmt.Errorf("failed to record payment attempt for bill %s: %w", billID, err)
			}
			outcome = domain.BillPaymentInsufficientFunds
			return nil
		}

		debitQuery := `
			UPDATE accounts
			SET balance = balance - $2, last_updated_at = $3, last_updated_by = $4
			WHERE account_id = $1;
		`
		if _, err := tx.Exec(ctx, debitQuery, bill.AccountID, bill.Amount, now, bill.UserID); err != nil {
			return fmt.Errorf("failed to debit account %s for bill %s: %w", bill.AccountID, billID, err)
		}

		if bill.Recurrence == domain.RecurrenceOnce {
			completeQuery := `
				UPDATE automatic_bills
				SET status = $2, payment_attempts = 0, last_updated_at = $3
				WHERE bill_id = $1;
			`
			if _, err := tx.Exec(ctx, completeQuery, billID, domain.BillCompleted, now); err != nil {
				return fmt.Errorf("failed to complete bill %s: %w", billID, err)
			}
		} else {
			rescheduleQuery := `
				UPDATE automatic_bills
				SET due_date = $2, payment_attempts = 0, last_updated_at = $3
				WHERE bill_id = $1;
			`
			if _, err := tx.Exec(ctx, rescheduleQuery, billID, bill.NextDueDate(), now); err != nil {
				return fmt.Errorf("failed to reschedule bill %s: %w", billID, err)
			}
		}

		outcome = domain.BillPaymentSucceeded
		return nil
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

// MarkBillFailed transitions a bill to its terminal FAILED status once the
// attempt cap is reached.
func (r *PgxBillRepository) MarkBillFailed(ctx context.Context, billID string, now time.Time) error {
	query := `
		UPDATE automatic_bills
		SET status = $2, last_updated_at = $3
		WHERE bill_id = $1 AND status = $4;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, billID, domain.BillFailed, now, domain.BillPending)
	if err != nil {
		return fmt.Errorf("failed to mark bill %s failed: %w", billID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bill %s is not pending", apperrors.ErrConflict, billID)
	}
	return nil
}
