package ports

import (
	"context"
	"time"

	"github.com/finbook/finbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyRepository persists currencies and their cached exchange rates.
type CurrencyRepository interface {
	// SaveCurrency inserts a currency and returns it with its assigned id.
	// Returns apperrors.ErrDuplicate when the code is already taken.
	SaveCurrency(ctx context.Context, currency domain.Currency) (*domain.Currency, error)
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	FindCurrencyByID(ctx context.Context, currencyID int64) (*domain.Currency, error)
	FindCurrenciesByIDs(ctx context.Context, currencyIDs []int64) (map[int64]domain.Currency, error)
	// FindBaseCurrency returns the currency flagged as base, or ErrNotFound
	// when no currency exists yet.
	FindBaseCurrency(ctx context.Context) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
	// UpdateExchangeRates rewrites the cached rate for each listed currency.
	UpdateExchangeRates(ctx context.Context, rates map[int64]decimal.Decimal) error
}

// AccountRepository persists the flat chart-of-accounts records.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error)
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)
	// FindChildAccount looks up one resolver level: an account by name under
	// the given parent (nil parent means a root account).
	FindChildAccount(ctx context.Context, name string, parentID *int64) (*domain.Account, error)
	// FindAccountsByPrefix returns accounts whose full name starts with the
	// given prefix, ordered by full name ascending.
	FindAccountsByPrefix(ctx context.Context, prefix string) ([]domain.Account, error)
	// ListAccounts returns every account ordered by full name ascending.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// LedgerPage carries validated filter and pagination arguments for history
// queries, resolved from the caller-facing request shape.
type LedgerPage struct {
	StartDate *time.Time
	EndDate   *time.Time
	Meta      domain.Meta
	Ascending bool
	Offset    int
	Limit     int
}

// JournalRepository persists journal entries and their transactions.
type JournalRepository interface {
	// SaveEntry writes the journal row and every transaction row as one
	// atomic unit and returns the entry with all assigned ids.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, transactions []domain.Transaction) (*domain.JournalEntry, error)
	FindEntryByID(ctx context.Context, journalID int64) (*domain.JournalEntry, error)
	// FindTransactionsAfter returns the account's transactions with id above
	// the checkpoint, ordered by id descending.
	FindTransactionsAfter(ctx context.Context, accountID int64, afterTransactionID int64) ([]domain.Transaction, error)
	// ListRichTransactions returns the denormalized history for the given
	// accounts, filtered and paginated per page.
	ListRichTransactions(ctx context.Context, accountIDs []int64, page LedgerPage) ([]domain.RichTransaction, error)
	// SumTradingByCurrency totals raw debit and credit amounts per currency
	// across all accounts inside the optional date window.
	SumTradingByCurrency(ctx context.Context, startDate, endDate *time.Time) ([]domain.CurrencyTrading, error)
}

// BalanceRepository persists balance cache checkpoints.
type BalanceRepository interface {
	// FindLatestBalance returns the checkpoint with the highest folded
	// transaction id for the account, or ErrNotFound when none exists.
	FindLatestBalance(ctx context.Context, accountID int64) (*domain.Balance, error)
	SaveBalance(ctx context.Context, balance domain.Balance) error
}
