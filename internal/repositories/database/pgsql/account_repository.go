package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finbook/finbook/internal/apperrors"
	"github.com/finbook/finbook/internal/core/domain"
	"github.com/finbook/finbook/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) ports.AccountRepository {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ ports.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, name, full_name, parent_account_id, currency_id, created_at`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var account domain.Account
	var parentID sql.NullInt64
	err := row.Scan(
		&account.AccountID,
		&account.Name,
		&account.FullName,
		&parentID,
		&account.CurrencyID,
		&account.CreatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	if parentID.Valid {
		account.ParentAccountID = &parentID.Int64
	}
	return account, nil
}

// SaveAccount inserts a new account and returns it with its assigned id.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (name, full_name, parent_account_id, currency_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING account_id;
	`
	err := r.Pool.QueryRow(ctx, query,
		account.Name,
		account.FullName,
		account.ParentAccountID,
		account.CurrencyID,
		account.CreatedAt,
	).Scan(&account.AccountID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.FullName)
		}
		return nil, fmt.Errorf("failed to save account %s: %w", account.FullName, err)
	}
	return &account, nil
}

// FindAccountByID retrieves an account by its id.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by id %d: %w", accountID, err)
	}
	return &account, nil
}

// FindChildAccount looks up one resolver level: an account by name under the
// given parent. A nil parent selects among root accounts.
func (r *PgxAccountRepository) FindChildAccount(ctx context.Context, name string, parentID *int64) (*domain.Account, error) {
	var row pgx.Row
	if parentID == nil {
		query := `SELECT ` + accountColumns + ` FROM accounts WHERE name = $1 AND parent_account_id IS NULL;`
		row = r.Pool.QueryRow(ctx, query, name)
	} else {
		query := `SELECT ` + accountColumns + ` FROM accounts WHERE name = $1 AND parent_account_id = $2;`
		row = r.Pool.QueryRow(ctx, query, name, *parentID)
	}

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find child account %s: %w", name, err)
	}
	return &account, nil
}

// FindAccountsByPrefix returns accounts whose full name starts with the given
// prefix, ordered by full name ascending. Matching is on the literal prefix;
// underscores in account names carry no wildcard meaning.
func (r *PgxAccountRepository) FindAccountsByPrefix(ctx context.Context, prefix string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE starts_with(full_name, $1)
		ORDER BY full_name;
	`
	rows, err := r.Pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by prefix %s: %w", prefix, err)
	}
	defer rows.Close()

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect account rows: %w", err)
	}
	return accounts, nil
}

// ListAccounts retrieves every account ordered by full name ascending.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY full_name;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect account rows: %w", err)
	}
	return accounts, nil
}
