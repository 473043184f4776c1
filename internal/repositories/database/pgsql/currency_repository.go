package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbook/finbook/internal/apperrors"
	"github.com/finbook/finbook/internal/core/domain"
	"github.com/finbook/finbook/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) ports.CurrencyRepository {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ ports.CurrencyRepository = (*PgxCurrencyRepository)(nil)

const currencyColumns = `currency_id, code, exchange_rate, is_base, created_at`

func scanCurrency(row pgx.Row) (domain.Currency, error) {
	var currency domain.Currency
	var rate decimal.NullDecimal
	err := row.Scan(
		&currency.CurrencyID,
		&currency.Code,
		&rate,
		&currency.IsBase,
		&currency.CreatedAt,
	)
	if err != nil {
		return domain.Currency{}, err
	}
	if rate.Valid {
		currency.ExchangeRate = &rate.Decimal
	}
	return currency, nil
}

// SaveCurrency inserts a new currency and returns it with its assigned id.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) (*domain.Currency, error) {
	query := `
		INSERT INTO currencies (code, exchange_rate, is_base, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING currency_id;
	`
	rate := decimal.NullDecimal{}
	if currency.ExchangeRate != nil {
		rate = decimal.NullDecimal{Decimal: *currency.ExchangeRate, Valid: true}
	}
	err := r.Pool.QueryRow(ctx, query,
		currency.Code,
		rate,
		currency.IsBase,
		currency.CreatedAt,
	).Scan(&currency.CurrencyID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, fmt.Errorf("%w: currency code %s", apperrors.ErrDuplicate, currency.Code)
		}
		return nil, fmt.Errorf("failed to save currency %s: %w", currency.Code, err)
	}
	return &currency, nil
}

// FindCurrencyByCode retrieves a currency by its code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE code = $1;`
	currency, err := scanCurrency(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", code, err)
	}
	return &currency, nil
}

// FindCurrencyByID retrieves a currency by its id.
func (r *PgxCurrencyRepository) FindCurrencyByID(ctx context.Context, currencyID int64) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_id = $1;`
	currency, err := scanCurrency(r.Pool.QueryRow(ctx, query, currencyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by id %d: %w", currencyID, err)
	}
	return &currency, nil
}

// FindCurrenciesByIDs retrieves the given currencies keyed by id. Missing ids
// are silently absent from the result.
func (r *PgxCurrencyRepository) FindCurrenciesByIDs(ctx context.Context, currencyIDs []int64) (map[int64]domain.Currency, error) {
	result := make(map[int64]domain.Currency, len(currencyIDs))
	if len(currencyIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, currencyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		currency, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		result[currency.CurrencyID] = currency
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", err)
	}
	return result, nil
}

// FindBaseCurrency retrieves the currency flagged as base.
func (r *PgxCurrencyRepository) FindBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE is_base;`
	currency, err := scanCurrency(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find base currency: %w", err)
	}
	return &currency, nil
}

// ListCurrencies retrieves all currencies ordered by id.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies ORDER BY currency_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect currency rows: %w", err)
	}
	return currencies, nil
}

// UpdateExchangeRates rewrites the cached rate for each listed currency in one
// batch. The base currency's rate is never touched.
func (r *PgxCurrencyRepository) UpdateExchangeRates(ctx context.Context, rates map[int64]decimal.Decimal) error {
	if len(rates) == 0 {
		return nil
	}

	query := `UPDATE currencies SET exchange_rate = $2 WHERE currency_id = $1 AND NOT is_base;`
	batch := &pgx.Batch{}
	for currencyID, rate := range rates {
		batch.Queue(query, currencyID, rate)
	}

	br := r.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range rates {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to update exchange rate: %w", err)
		}
	}
	return nil
}
