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

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, user_id, phone, country, currency_code, role, balance, commission_balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountID,
		&acc.UserID,
		&acc.Phone,
		&acc.Country,
		&acc.CurrencyCode,
		&acc.Role,
		&acc.Balance,
		&acc.CommissionBalance,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`

	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.UserID,
		account.Phone,
		account.Country,
		account.CurrencyCode,
		account.Role,
		account.Balance,
		account.CommissionBalance,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: account with this phone already exists", apperrors.ErrDuplicate)
			}
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	acc, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return acc, nil
}

// FindAccountByPhone retrieves an active account by its phone number.
func (r *PgxAccountRepository) FindAccountByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE phone = $1 AND is_active = TRUE;`

	acc, err := scanAccount(r.pool.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by phone: %w", err)
	}
	return acc, nil
}

// ListAccountsByUserID retrieves all accounts owned by a user.
func (r *PgxAccountRepository) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at;`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for user %s: %w", userID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for user %s: %w", userID, err)
		}
		accounts = append(accounts, *acc)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for user %s: %w", userID, rows.Err())
	}
	return accounts, nil
}

// IncrementBalance applies a signed delta to the account balance in a single
// statement. The database computes the new balance, so concurrent increments
// never lose updates.
func (r *PgxAccountRepository) IncrementBalance(ctx context.Context, accountID string, delta decimal.Decimal, updaterUserID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`

	cmdTag, err := r.pool.Exec(ctx, query, accountID, delta, now, updaterUserID)
	if err != nil {
		return fmt.Errorf("failed to increment balance for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// IncrementAgentCommission applies a signed delta to the agent commission
// balance, same mechanism as IncrementBalance.
func (r *PgxAccountRepository) IncrementAgentCommission(ctx context.Context, accountID string, delta decimal.Decimal, updaterUserID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET commission_balance = commission_balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`

	cmdTag, err := r.pool.Exec(ctx, query, accountID, delta, now, updaterUserID)
	if err != nil {
		return fmt.Errorf("failed to increment commission for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s not found during commission update", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, updaterUserID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_active = TRUE;
	`

	cmdTag, err := r.pool.Exec(ctx, query, accountID, now, updaterUserID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Either the account does not exist or it was already inactive.
		_, findErr := r.FindAccountByID(ctx, accountID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check account status after deactivation attempt for %s: %w", accountID, findErr)
		}
		return apperrors.ErrConflict
	}
	return nil
}
