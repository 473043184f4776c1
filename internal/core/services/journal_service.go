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

// balanceEpsilon is the tolerance for the double-entry check in base-currency
// units. Debit and credit sums may differ by less than this after per-line
// exchange-rate division.
var balanceEpsilon = decimal.New(1, -10)

type journalService struct {
	accountSvc   ports.AccountService
	currencyRepo ports.CurrencyRepository
	journalRepo  ports.JournalRepository
}

// NewJournalService creates a new JournalService.
func NewJournalService(accountSvc ports.AccountService, currencyRepo ports.CurrencyRepository, journalRepo ports.JournalRepository) ports.JournalService {
	return &journalService{
		accountSvc:   accountSvc,
		currencyRepo: currencyRepo,
		journalRepo:  journalRepo,
	}
}

var _ ports.JournalService = (*journalService)(nil)

// resolvedLine pairs a draft line with its resolved account, currency and
// effective exchange rate.
type resolvedLine struct {
	line     domain.EntryLine
	account  *domain.Account
	currency domain.Currency
	rate     decimal.Decimal
}

// Commit runs the double-entry commit protocol on a draft entry: resolve
// every line's account, resolve the effective exchange rate per line, check
// the debit/credit balance in base-currency units, write the journal entry
// and all transactions as one atomic unit, then update the cached per-currency
// rates. Any failure before the write leaves no state behind.
func (s *journalService) Commit(ctx context.Context, entry *domain.Entry) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if entry == nil {
		return nil, fmt.Errorf("%w: nil entry", apperrors.ErrValidation)
	}
	if entry.Committed() {
		return nil, apperrors.ErrAlreadyCommitted
	}
	if err := entry.Err(); err != nil {
		return nil, err
	}
	lines := entry.Lines()
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: entry has no lines", apperrors.ErrValidation)
	}

	resolved, err := s.resolveLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, rl := range resolved {
		base := rl.line.Amount.Div(rl.rate)
		if rl.line.TransactionType == domain.Debit {
			debits = debits.Add(base)
		} else {
			credits = credits.Add(base)
		}
	}
	if debits.Sub(credits).Abs().GreaterThanOrEqual(balanceEpsilon) {
		return nil, &apperrors.UnbalancedEntryError{Debits: debits, Credits: credits}
	}

	now := time.Now().UTC()
	transactions := make([]domain.Transaction, len(resolved))
	for i, rl := range resolved {
		transactions[i] = domain.Transaction{
			AccountID:       rl.account.AccountID,
			Amount:          rl.line.Amount,
			TransactionType: rl.line.TransactionType,
			ExchangeRate:    rl.rate,
			Memo:            entry.Memo(),
			Meta:            rl.line.Meta,
			CreatedAt:       now,
		}
	}

	saved, err := s.journalRepo.SaveEntry(ctx, domain.JournalEntry{CreatedAt: now}, transactions)
	if err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	entry.MarkCommitted()

	// Last rate used per currency within this entry wins, in line-insertion
	// order. The base currency is pinned at 1 and never rewritten. The entry
	// is already durably committed at this point: a failed rate update only
	// leaves a stale default for future entries that omit an explicit rate.
	rates := make(map[int64]decimal.Decimal)
	for _, rl := range resolved {
		if rl.currency.IsBase {
			continue
		}
		rates[rl.currency.CurrencyID] = rl.rate
	}
	if len(rates) > 0 {
		if err := s.currencyRepo.UpdateExchangeRates(ctx, rates); err != nil {
			logger.Warn("Failed to update cached exchange rates after commit",
				slog.String("error", err.Error()), slog.Int64("journal_id", saved.JournalID))
		}
	}

	logger.Info("Entry committed", slog.Int64("journal_id", saved.JournalID), slog.Int("lines", len(transactions)))
	return saved, nil
}

// resolveLines resolves accounts and effective exchange rates for every draft
// line, in insertion order. A single unresolvable account fails the whole
// entry, naming the offending path.
func (s *journalService) resolveLines(ctx context.Context, lines []domain.EntryLine) ([]resolvedLine, error) {
	accountCache := make(map[string]*domain.Account)
	currencyCache := make(map[int64]domain.Currency)

	resolved := make([]resolvedLine, 0, len(lines))
	for _, line := range lines {
		account, ok := accountCache[line.AccountPath]
		if !ok {
			var err error
			account, err = s.accountSvc.ResolveAccount(ctx, line.AccountPath)
			if err != nil {
				return nil, err
			}
			accountCache[line.AccountPath] = account
		}

		currency, ok := currencyCache[account.CurrencyID]
		if !ok {
			c, err := s.currencyRepo.FindCurrencyByID(ctx, account.CurrencyID)
			if err != nil {
				return nil, fmt.Errorf("failed to load currency for account %q: %w", line.AccountPath, err)
			}
			currency = *c
			currencyCache[account.CurrencyID] = currency
		}

		var rate decimal.Decimal
		switch {
		case currency.IsBase:
			// A user-supplied rate on a base-currency line is silently
			// overridden, not an error.
			rate = decimal.NewFromInt(1)
		case line.ExchangeRate != nil:
			rate = *line.ExchangeRate
		case currency.ExchangeRate != nil:
			rate = *currency.ExchangeRate
		default:
			return nil, fmt.Errorf("%w: currency %s on line for %q", apperrors.ErrNoExchangeRate, currency.Code, line.AccountPath)
		}

		resolved = append(resolved, resolvedLine{
			line:     line,
			account:  account,
			currency: currency,
			rate:     rate,
		})
	}
	return resolved, nil
}

// GetEntryByID retrieves a committed journal entry with its transactions.
func (s *journalService) GetEntryByID(ctx context.Context, journalID int64) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	entry, err := s.journalRepo.FindEntryByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal entry", slog.String("error", err.Error()), slog.Int64("journal_id", journalID))
		}
		return nil, err
	}
	return entry, nil
}
