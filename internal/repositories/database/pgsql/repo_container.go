package pgsql

import (
	"github.com/finbook/finbook/internal/core/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every pgsql-backed repository.
type Repositories struct {
	CurrencyRepo ports.CurrencyRepository
	AccountRepo  ports.AccountRepository
	JournalRepo  ports.JournalRepository
	BalanceRepo  ports.BalanceRepository
}

// NewRepositories constructs all repositories on one shared pool.
func NewRepositories(dbPool *pgxpool.Pool) Repositories {
	return Repositories{
		CurrencyRepo: newPgxCurrencyRepository(dbPool),
		AccountRepo:  newPgxAccountRepository(dbPool),
		JournalRepo:  newPgxJournalRepository(dbPool),
		BalanceRepo:  newPgxBalanceRepository(dbPool),
	}
}
