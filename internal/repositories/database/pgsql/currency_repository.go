package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	"github.com/afrimoni/remit_backend/internal/core/domain"
	portsrepo "github.com/afrimoni/remit_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCurrencyRepository struct {
	pool *pgxpool.Pool
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepository {
	return &PgxCurrencyRepository{pool: pool}
}

// Ensure PgxCurrencyRepository implements portsrepo.CurrencyRepository
var _ portsrepo.CurrencyRepository = (*PgxCurrencyRepository)(nil)

// SaveCurrency inserts a new currency.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	query := `
		INSERT INTO currencies (currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	_, err := r.pool.Exec(ctx, query,
		currency.CurrencyCode,
		currency.Symbol,
		currency.Name,
		currency.Precision,
		currency.CreatedAt,
		currency.CreatedBy,
		currency.LastUpdatedAt,
		currency.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: currency %s already exists", apperrors.ErrDuplicate, currency.CurrencyCode)
		}
		return fmt.Errorf("failed to save currency %s: %w", currency.CurrencyCode, err)
	}
	return nil
}

// FindCurrencyByCode retrieves a currency by its ISO code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	query := `
		SELECT currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by
		FROM currencies
		WHERE currency_code = $1;
	`

	var c domain.Currency
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&c.CurrencyCode,
		&c.Symbol,
		&c.Name,
		&c.Precision,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency %s: %w", code, err)
	}
	return &c, nil
}

// ListCurrencies retrieves all supported currencies.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by
		FROM currencies
		ORDER BY currency_code;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies := []domain.Currency{}
	for rows.Next() {
		var c domain.Currency
		err := rows.Scan(
			&c.CurrencyCode,
			&c.Symbol,
			&c.Name,
			&c.Precision,
			&c.CreatedAt,
			&c.CreatedBy,
			&c.LastUpdatedAt,
			&c.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		currencies = append(currencies, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", rows.Err())
	}
	return currencies, nil
}
