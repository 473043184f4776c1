package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbook/finbook/internal/apperrors"
	"github.com/finbook/finbook/internal/core/domain"
	"github.com/finbook/finbook/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBalanceRepository struct {
	BaseRepository
}

// newPgxBalanceRepository creates a new repository for balance checkpoints.
func newPgxBalanceRepository(pool *pgxpool.Pool) ports.BalanceRepository {
	return &PgxBalanceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ ports.BalanceRepository = (*PgxBalanceRepository)(nil)

// FindLatestBalance returns the checkpoint with the highest folded transaction
// id for the account.
func (r *PgxBalanceRepository) FindLatestBalance(ctx context.Context, accountID int64) (*domain.Balance, error) {
	query := `
		SELECT balance_id, account_id, transaction_id, amount, created_at
		FROM balances
		WHERE account_id = $1
		ORDER BY transaction_id DESC
		LIMIT 1;
	`
	var balance domain.Balance
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(
		&balance.BalanceID,
		&balance.AccountID,
		&balance.TransactionID,
		&balance.Amount,
		&balance.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find balance for account %d: %w", accountID, err)
	}
	return &balance, nil
}

// SaveBalance appends a new checkpoint row. Checkpoints are never updated in
// place; readers take the one with the highest transaction id.
func (r *PgxBalanceRepository) SaveBalance(ctx context.Context, balance domain.Balance) error {
	query := `
		INSERT INTO balances (account_id, transaction_id, amount, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, transaction_id) DO NOTHING;
	`
	_, err := r.Pool.Exec(ctx, query,
		balance.AccountID,
		balance.TransactionID,
		balance.Amount,
		balance.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save balance for account %d: %w", balance.AccountID, err)
	}
	return nil
}
