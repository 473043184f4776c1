package services

import "github.com/finbook/finbook/internal/core/ports"

// Container bundles all services for wiring into the HTTP layer.
type Container struct {
	Currency ports.CurrencyService
	Account  ports.AccountService
	Balance  ports.BalanceService
	Journal  ports.JournalService
	Ledger   ports.LedgerService
}

// NewContainer constructs the full service graph from the repositories.
func NewContainer(
	currencyRepo ports.CurrencyRepository,
	accountRepo ports.AccountRepository,
	journalRepo ports.JournalRepository,
	balanceRepo ports.BalanceRepository,
) *Container {
	currencySvc := NewCurrencyService(currencyRepo)
	accountSvc := NewAccountService(accountRepo, currencyRepo)
	balanceSvc := NewBalanceService(accountSvc, accountRepo, currencyRepo, journalRepo, balanceRepo)
	journalSvc := NewJournalService(accountSvc, currencyRepo, journalRepo)
	ledgerSvc := NewLedgerService(accountSvc, balanceSvc, currencyRepo, journalRepo)

	return &Container{
		Currency: currencySvc,
		Account:  accountSvc,
		Balance:  balanceSvc,
		Journal:  journalSvc,
		Ledger:   ledgerSvc,
	}
}
