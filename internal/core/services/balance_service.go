package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbook/finbook/internal/apperrors"
	"github.com/finbook/finbook/internal/core/domain"
	"github.com/finbook/finbook/internal/core/ports"
	"github.com/finbook/finbook/internal/middleware"
	"github.com/shopspring/decimal"
)

type balanceService struct {
	accountSvc   ports.AccountService
	accountRepo  ports.AccountRepository
	currencyRepo ports.CurrencyRepository
	journalRepo  ports.JournalRepository
	balanceRepo  ports.BalanceRepository
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(
	accountSvc ports.AccountService,
	accountRepo ports.AccountRepository,
	currencyRepo ports.CurrencyRepository,
	journalRepo ports.JournalRepository,
	balanceRepo ports.BalanceRepository,
) ports.BalanceService {
	return &balanceService{
		accountSvc:   accountSvc,
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
		journalRepo:  journalRepo,
		balanceRepo:  balanceRepo,
	}
}

var _ ports.BalanceService = (*balanceService)(nil)

// IsolatedBalance computes the account's own running balance: load the most
// recent checkpoint, fold only the transactions appended since, and persist a
// new checkpoint when anything was folded. The checkpoint write is a pure
// optimization; its failure is logged and the computed sum is returned anyway.
func (s *balanceService) IsolatedBalance(ctx context.Context, account domain.Account) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	checkpoint := int64(0)
	running := decimal.Zero
	latest, err := s.balanceRepo.FindLatestBalance(ctx, account.AccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("failed to load balance checkpoint for account %d: %w", account.AccountID, err)
		}
	} else {
		checkpoint = latest.TransactionID
		running = latest.Amount
	}

	txns, err := s.journalRepo.FindTransactionsAfter(ctx, account.AccountID, checkpoint)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load transactions for account %d: %w", account.AccountID, err)
	}

	for _, txn := range txns {
		if txn.IsCredit() {
			running = running.Sub(txn.Amount)
		} else {
			running = running.Add(txn.Amount)
		}
	}

	if len(txns) > 0 {
		// Rows come back ordered by id descending, so the first row is the
		// new checkpoint.
		balance := domain.Balance{
			AccountID:     account.AccountID,
			TransactionID: txns[0].TransactionID,
			Amount:        running,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.balanceRepo.SaveBalance(ctx, balance); err != nil {
			logger.Warn("Failed to persist balance checkpoint, returning computed sum",
				slog.String("error", err.Error()), slog.Int64("account_id", account.AccountID))
		}
	}

	return running, nil
}

// Subtree returns the account's descendants ordered by full name ascending.
// A nil account selects every account.
func (s *balanceService) Subtree(ctx context.Context, account *domain.Account) ([]domain.Account, error) {
	if account == nil {
		return s.accountRepo.ListAccounts(ctx)
	}
	return s.accountRepo.FindAccountsByPrefix(ctx, account.FullName+domain.PathSeparator)
}

// AggregateBalance sums the isolated balances of the account at path and all
// of its descendants, each converted into base-currency units by dividing by
// its currency's currently cached rate. The base currency is special-cased on
// identity: its stored rate is never consulted.
func (s *balanceService) AggregateBalance(ctx context.Context, path string) (decimal.Decimal, error) {
	account, err := s.accountSvc.ResolveAccount(ctx, path)
	if err != nil {
		return decimal.Zero, err
	}

	descendants, err := s.Subtree(ctx, account)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to expand subtree of %q: %w", path, err)
	}
	accounts := append([]domain.Account{*account}, descendants...)

	currencyIDs := make([]int64, 0, len(accounts))
	seen := make(map[int64]struct{}, len(accounts))
	for _, acc := range accounts {
		if _, ok := seen[acc.CurrencyID]; !ok {
			seen[acc.CurrencyID] = struct{}{}
			currencyIDs = append(currencyIDs, acc.CurrencyID)
		}
	}
	currencies, err := s.currencyRepo.FindCurrenciesByIDs(ctx, currencyIDs)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load currencies for subtree of %q: %w", path, err)
	}

	total := decimal.Zero
	for _, acc := range accounts {
		isolated, err := s.IsolatedBalance(ctx, acc)
		if err != nil {
			return decimal.Zero, err
		}
		currency, ok := currencies[acc.CurrencyID]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: currency %d for account %q", apperrors.ErrNotFound, acc.CurrencyID, acc.FullName)
		}
		if currency.IsBase {
			total = total.Add(isolated)
			continue
		}
		rate, ok := currency.CachedRate()
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: currency %s", apperrors.ErrNoExchangeRate, currency.Code)
		}
		total = total.Add(isolated.Div(rate))
	}
	return total, nil
}
