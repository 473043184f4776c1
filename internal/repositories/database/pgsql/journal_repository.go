package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finbook/finbook/internal/apperrors"
	"github.com/finbook/finbook/internal/core/domain"
	"github.com/finbook/finbook/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(pool *pgxpool.Pool) ports.JournalRepository {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ ports.JournalRepository = (*PgxJournalRepository)(nil)

const transactionColumns = `transaction_id, journal_id, account_id, amount, credit, exchange_rate, memo, meta, created_at`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var txn domain.Transaction
	var credit bool
	var metaJSON []byte
	err := row.Scan(
		&txn.TransactionID,
		&txn.JournalID,
		&txn.AccountID,
		&txn.Amount,
		&credit,
		&txn.ExchangeRate,
		&txn.Memo,
		&metaJSON,
		&txn.CreatedAt,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	txn.TransactionType = domain.Debit
	if credit {
		txn.TransactionType = domain.Credit
	}
	if err := json.Unmarshal(metaJSON, &txn.Meta); err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to decode transaction meta: %w", err)
	}
	return txn, nil
}

// SaveEntry writes the journal row and every transaction row in one database
// transaction and returns the entry with all assigned ids. Transaction ids
// are assigned in slice order, so within the entry they are strictly
// increasing in line-insertion order.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, transactions []domain.Transaction) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	journalQuery := `INSERT INTO journal_entries (created_at) VALUES ($1) RETURNING journal_id;`
	if err := tx.QueryRow(ctx, journalQuery, entry.CreatedAt).Scan(&entry.JournalID); err != nil {
		return nil, fmt.Errorf("failed to insert journal entry: %w", err)
	}

	txnQuery := `
		INSERT INTO transactions (journal_id, account_id, amount, credit, exchange_rate, memo, meta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING transaction_id;
	`
	batch := &pgx.Batch{}
	for i := range transactions {
		transactions[i].JournalID = entry.JournalID
		meta := transactions[i].Meta
		if meta == nil {
			meta = domain.Meta{}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("failed to encode transaction meta: %w", err)
		}
		batch.Queue(txnQuery,
			transactions[i].JournalID,
			transactions[i].AccountID,
			transactions[i].Amount,
			transactions[i].IsCredit(),
			transactions[i].ExchangeRate,
			transactions[i].Memo,
			metaJSON,
			transactions[i].CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range transactions {
		if err := br.QueryRow().Scan(&transactions[i].TransactionID); err != nil {
			br.Close() //nolint:errcheck
			return nil, fmt.Errorf("failed to insert transaction %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to close transaction batch: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	entry.Transactions = transactions
	return &entry, nil
}

// FindEntryByID retrieves a journal entry with its transactions in id order.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, journalID int64) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	journalQuery := `SELECT journal_id, created_at FROM journal_entries WHERE journal_id = $1;`
	err := r.Pool.QueryRow(ctx, journalQuery, journalID).Scan(&entry.JournalID, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %d: %w", journalID, err)
	}

	txnQuery := `SELECT ` + transactionColumns + ` FROM transactions WHERE journal_id = $1 ORDER BY transaction_id;`
	rows, err := r.Pool.Query(ctx, txnQuery, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for journal %d: %w", journalID, err)
	}
	defer rows.Close()

	entry.Transactions, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect transaction rows: %w", err)
	}
	return &entry, nil
}

// FindTransactionsAfter returns the account's transactions with id above the
// checkpoint, newest first, so the first row carries the next checkpoint id.
func (r *PgxJournalRepository) FindTransactionsAfter(ctx context.Context, accountID int64, afterTransactionID int64) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND transaction_id > $2
		ORDER BY transaction_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, afterTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %d: %w", accountID, err)
	}
	defer rows.Close()

	txns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect transaction rows: %w", err)
	}
	return txns, nil
}

// ListRichTransactions returns the denormalized history for the given
// accounts, joined with account and currency details, filtered and paginated
// per page. Meta filters use jsonb containment, so every filter key must match
// exactly.
func (r *PgxJournalRepository) ListRichTransactions(ctx context.Context, accountIDs []int64, page ports.LedgerPage) ([]domain.RichTransaction, error) {
	if len(accountIDs) == 0 {
		return []domain.RichTransaction{}, nil
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT t.transaction_id, a.name, a.full_name, t.amount, t.credit, c.code, t.exchange_rate, t.memo, t.meta, t.created_at
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		JOIN currencies c ON c.currency_id = a.currency_id
		WHERE t.account_id = ANY($1)`)
	args := []any{accountIDs}

	if page.StartDate != nil {
		args = append(args, *page.StartDate)
		fmt.Fprintf(&sb, " AND t.created_at >= $%d", len(args))
	}
	if page.EndDate != nil {
		args = append(args, *page.EndDate)
		fmt.Fprintf(&sb, " AND t.created_at <= $%d", len(args))
	}
	if len(page.Meta) > 0 {
		metaJSON, err := json.Marshal(page.Meta)
		if err != nil {
			return nil, fmt.Errorf("failed to encode meta filter: %w", err)
		}
		args = append(args, metaJSON)
		fmt.Fprintf(&sb, " AND t.meta @> $%d", len(args))
	}

	if page.Ascending {
		sb.WriteString(" ORDER BY t.transaction_id ASC")
	} else {
		sb.WriteString(" ORDER BY t.transaction_id DESC")
	}

	if page.Offset > 0 {
		args = append(args, page.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}
	if page.Limit >= 0 {
		args = append(args, page.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	sb.WriteString(";")

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger transactions: %w", err)
	}
	defer rows.Close()

	txns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RichTransaction, error) {
		var txn domain.RichTransaction
		var fullName string
		var metaJSON []byte
		err := row.Scan(
			&txn.TransactionID,
			&txn.AccountName,
			&fullName,
			&txn.Amount,
			&txn.Credit,
			&txn.CurrencyCode,
			&txn.ExchangeRate,
			&txn.Memo,
			&metaJSON,
			&txn.CreatedAt,
		)
		if err != nil {
			return domain.RichTransaction{}, err
		}
		txn.AccountPath = strings.Split(fullName, domain.PathSeparator)
		if err := json.Unmarshal(metaJSON, &txn.Meta); err != nil {
			return domain.RichTransaction{}, fmt.Errorf("failed to decode transaction meta: %w", err)
		}
		return txn, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect ledger rows: %w", err)
	}
	return txns, nil
}

// SumTradingByCurrency totals raw debit and credit amounts per currency across
// all accounts inside the optional date window.
func (r *PgxJournalRepository) SumTradingByCurrency(ctx context.Context, startDate, endDate *time.Time) ([]domain.CurrencyTrading, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT c.code,
			COALESCE(SUM(t.amount) FILTER (WHERE NOT t.credit), 0) AS debits,
			COALESCE(SUM(t.amount) FILTER (WHERE t.credit), 0) AS credits
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		JOIN currencies c ON c.currency_id = a.currency_id
		WHERE TRUE`)
	args := []any{}

	if startDate != nil {
		args = append(args, *startDate)
		fmt.Fprintf(&sb, " AND t.created_at >= $%d", len(args))
	}
	if endDate != nil {
		args = append(args, *endDate)
		fmt.Fprintf(&sb, " AND t.created_at <= $%d", len(args))
	}
	sb.WriteString(" GROUP BY c.currency_id, c.code ORDER BY c.currency_id;")

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trading totals: %w", err)
	}
	defer rows.Close()

	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CurrencyTrading, error) {
		var ct domain.CurrencyTrading
		err := row.Scan(&ct.CurrencyCode, &ct.Debits, &ct.Credits)
		return ct, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect trading rows: %w", err)
	}
	return totals, nil
}
