package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/finbook/finbook/internal/apperrors"
	"github.com/finbook/finbook/internal/core/domain"
	"github.com/finbook/finbook/internal/core/ports"
	"github.com/finbook/finbook/internal/dto"
	"github.com/shopspring/decimal"
)

type ledgerService struct {
	accountSvc   ports.AccountService
	balanceSvc   ports.BalanceService
	currencyRepo ports.CurrencyRepository
	journalRepo  ports.JournalRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accountSvc ports.AccountService, balanceSvc ports.BalanceService, currencyRepo ports.CurrencyRepository, journalRepo ports.JournalRepository) ports.LedgerService {
	return &ledgerService{
		accountSvc:   accountSvc,
		balanceSvc:   balanceSvc,
		currencyRepo: currencyRepo,
		journalRepo:  journalRepo,
	}
}

var _ ports.LedgerService = (*ledgerService)(nil)

// Ledger returns the paginated transaction history of the account at path and
// its whole subtree, denormalized with account and currency details. Meta
// filtering is exact key/value match on every filter entry.
func (s *ledgerService) Ledger(ctx context.Context, path string, req dto.LedgerQueryRequest) ([]domain.RichTransaction, error) {
	page, err := buildLedgerPage(req)
	if err != nil {
		return nil, err
	}

	account, err := s.accountSvc.ResolveAccount(ctx, path)
	if err != nil {
		return nil, err
	}
	descendants, err := s.balanceSvc.Subtree(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to expand subtree of %q: %w", path, err)
	}

	accountIDs := make([]int64, 0, len(descendants)+1)
	accountIDs = append(accountIDs, account.AccountID)
	for _, acc := range descendants {
		accountIDs = append(accountIDs, acc.AccountID)
	}

	txns, err := s.journalRepo.ListRichTransactions(ctx, accountIDs, page)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger for %q: %w", path, err)
	}
	return txns, nil
}

// buildLedgerPage validates the request and resolves defaults: unbounded
// dates, offset 0, no limit, newest first.
func buildLedgerPage(req dto.LedgerQueryRequest) (ports.LedgerPage, error) {
	page := ports.LedgerPage{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Meta:      req.Meta,
		Limit:     -1,
	}
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return page, fmt.Errorf("%w: start date is after end date", apperrors.ErrValidation)
	}
	if req.Offset != nil {
		if *req.Offset < 0 {
			return page, fmt.Errorf("%w: offset must not be negative", apperrors.ErrValidation)
		}
		page.Offset = *req.Offset
	}
	if req.Limit != nil {
		if *req.Limit < 0 {
			return page, fmt.Errorf("%w: limit must not be negative", apperrors.ErrValidation)
		}
		page.Limit = *req.Limit
	}
	if req.Order != nil {
		switch strings.ToLower(*req.Order) {
		case "asc":
			page.Ascending = true
		case "desc":
			page.Ascending = false
		default:
			return page, fmt.Errorf("%w: order must be \"asc\" or \"desc\"", apperrors.ErrValidation)
		}
	}
	return page, nil
}

// TradingBalance computes the whole-ledger currency-conversion P&L proxy:
// per-currency debit minus credit totals on raw amounts, each converted into
// base units at the currently cached rate and summed. Uncached and full-scan
// by design; callers bound it with the date range.
func (s *ledgerService) TradingBalance(ctx context.Context, req dto.DateRangeRequest) (*domain.TradingBalance, error) {
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, fmt.Errorf("%w: start date is after end date", apperrors.ErrValidation)
	}

	totals, err := s.journalRepo.SumTradingByCurrency(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum trading totals: %w", err)
	}

	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	byCode := make(map[string]domain.Currency, len(currencies))
	for _, c := range currencies {
		byCode[c.Code] = c
	}

	base := decimal.Zero
	for i := range totals {
		totals[i].Net = totals[i].Debits.Sub(totals[i].Credits)

		currency, ok := byCode[totals[i].CurrencyCode]
		if !ok {
			return nil, fmt.Errorf("%w: currency %q", apperrors.ErrNotFound, totals[i].CurrencyCode)
		}
		if currency.IsBase {
			base = base.Add(totals[i].Net)
			continue
		}
		rate, ok := currency.CachedRate()
		if !ok {
			return nil, fmt.Errorf("%w: currency %s", apperrors.ErrNoExchangeRate, currency.Code)
		}
		base = base.Add(totals[i].Net.Div(rate))
	}

	return &domain.TradingBalance{Currencies: totals, Base: base}, nil
}
