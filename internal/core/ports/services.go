package ports

import (
	"context"

	"github.com/finbook/finbook/internal/core/domain"
	"github.com/finbook/finbook/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencyService manages the currency table and the base-currency marker.
type CurrencyService interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// AccountService resolves colon-delimited paths and manages the chart of
// accounts.
type AccountService interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
	// ResolveAccount walks the path level by level and returns the account,
	// or ErrNotFound the instant any level is missing.
	ResolveAccount(ctx context.Context, path string) (*domain.Account, error)
	// GetAccountTree rebuilds the account hierarchy from the flat records.
	GetAccountTree(ctx context.Context) ([]*domain.AccountNode, error)
}

// BalanceService computes cached isolated balances and currency-normalized
// subtree aggregates.
type BalanceService interface {
	IsolatedBalance(ctx context.Context, account domain.Account) (decimal.Decimal, error)
	// AggregateBalance resolves the path and sums the isolated balances of
	// the account and its whole subtree, converted into base-currency units.
	AggregateBalance(ctx context.Context, path string) (decimal.Decimal, error)
	// Subtree returns the account's descendants ordered by full name.
	Subtree(ctx context.Context, account *domain.Account) ([]domain.Account, error)
}

// JournalService runs the double-entry commit protocol.
type JournalService interface {
	Commit(ctx context.Context, entry *domain.Entry) (*domain.JournalEntry, error)
	GetEntryByID(ctx context.Context, journalID int64) (*domain.JournalEntry, error)
}

// LedgerService answers history and trading-balance queries.
type LedgerService interface {
	Ledger(ctx context.Context, path string, req dto.LedgerQueryRequest) ([]domain.RichTransaction, error)
	TradingBalance(ctx context.Context, req dto.DateRangeRequest) (*domain.TradingBalance, error)
}
