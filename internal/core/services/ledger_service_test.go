package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbook/finbook/internal/apperrors"
	"github.com/finbook/finbook/internal/core/domain"
	"github.com/finbook/finbook/internal/core/ports"
	"github.com/finbook/finbook/internal/core/services"
	"github.com/finbook/finbook/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockAccountSvc   *MockAccountService
	mockBalanceSvc   *MockBalanceService
	mockCurrencyRepo *MockCurrencyRepository
	mockJournalRepo  *MockJournalRepository
	service          ports.LedgerService

	cash domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockBalanceSvc = new(MockBalanceService)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.service = services.NewLedgerService(
		suite.mockAccountSvc,
		suite.mockBalanceSvc,
		suite.mockCurrencyRepo,
		suite.mockJournalRepo,
	)

	suite.cash = domain.Account{AccountID: 10, Name: "Cash", FullName: "Assets:Cash", CurrencyID: 1}
}

func (suite *LedgerServiceTestSuite) TestLedger_QueriesWholeSubtree() {
	ctx := context.Background()
	child := domain.Account{AccountID: 11, FullName: "Assets:Cash:Register"}

	suite.mockAccountSvc.On("ResolveAccount", mock.Anything, "Assets:Cash").Return(&suite.cash, nil).Once()
	suite.mockBalanceSvc.On("Subtree", mock.Anything, &suite.cash).Return([]domain.Account{child}, nil).Once()

	want := []domain.RichTransaction{{TransactionID: 1, AccountName: "Cash"}}
	suite.mockJournalRepo.On("ListRichTransactions", mock.Anything, []int64{10, 11}, mock.MatchedBy(func(p ports.LedgerPage) bool {
		return p.Offset == 0 && p.Limit == -1 && !p.Ascending
	})).Return(want, nil).Once()

	got, err := suite.service.Ledger(ctx, "Assets:Cash", dto.LedgerQueryRequest{})

	suite.Require().NoError(err)
	suite.Equal(want, got)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestLedger_PassesFilters() {
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	offset, limit := 10, 5
	order := "ASC"

	suite.mockAccountSvc.On("ResolveAccount", mock.Anything, "Assets:Cash").Return(&suite.cash, nil).Once()
	suite.mockBalanceSvc.On("Subtree", mock.Anything, &suite.cash).Return([]domain.Account{}, nil).Once()
	suite.mockJournalRepo.On("ListRichTransactions", mock.Anything, []int64{10}, mock.MatchedBy(func(p ports.LedgerPage) bool {
		return p.Ascending && p.Offset == 10 && p.Limit == 5 &&
			p.StartDate.Equal(start) && p.EndDate.Equal(end) &&
			p.Meta["invoice"] == "inv-1"
	})).Return([]domain.RichTransaction{}, nil).Once()

	_, err := suite.service.Ledger(ctx, "Assets:Cash", dto.LedgerQueryRequest{
		StartDate: &start,
		EndDate:   &end,
		Offset:    &offset,
		Limit:     &limit,
		Order:     &order,
		Meta:      domain.Meta{"invoice": "inv-1"},
	})

	suite.Require().NoError(err)
}

func (suite *LedgerServiceTestSuite) TestLedger_RejectsBadArguments() {
	ctx := context.Background()
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	negative := -1
	sideways := "sideways"

	cases := []dto.LedgerQueryRequest{
		{StartDate: &start, EndDate: &end},
		{Offset: &negative},
		{Limit: &negative},
		{Order: &sideways},
	}
	for i, req := range cases {
		_, err := suite.service.Ledger(ctx, "Assets:Cash", req)
		suite.ErrorIs(err, apperrors.ErrValidation, "case %d", i)
	}
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "ListRichTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTradingBalance_ConvertsNets() {
	ctx := context.Background()
	eurRate := decimal.NewFromFloat(0.5)
	currencies := []domain.Currency{
		{CurrencyID: 1, Code: "USD", IsBase: true},
		{CurrencyID: 2, Code: "EUR", ExchangeRate: &eurRate},
	}
	totals := []domain.CurrencyTrading{
		{CurrencyCode: "USD", Debits: decimal.NewFromInt(300), Credits: decimal.NewFromInt(100)},
		{CurrencyCode: "EUR", Debits: decimal.NewFromInt(10), Credits: decimal.NewFromInt(60)},
	}

	suite.mockJournalRepo.On("SumTradingByCurrency", mock.Anything, (*time.Time)(nil), (*time.Time)(nil)).Return(totals, nil).Once()
	suite.mockCurrencyRepo.On("ListCurrencies", mock.Anything).Return(currencies, nil).Once()

	tb, err := suite.service.TradingBalance(ctx, dto.DateRangeRequest{})

	suite.Require().NoError(err)
	suite.Require().Len(tb.Currencies, 2)
	suite.True(tb.Currencies[0].Net.Equal(decimal.NewFromInt(200)))
	suite.True(tb.Currencies[1].Net.Equal(decimal.NewFromInt(-50)))
	// 200 USD + (-50 EUR / 0.5) = 100 base units.
	suite.True(tb.Base.Equal(decimal.NewFromInt(100)), "got %s", tb.Base)
}

func (suite *LedgerServiceTestSuite) TestTradingBalance_MissingRate() {
	ctx := context.Background()
	totals := []domain.CurrencyTrading{
		{CurrencyCode: "GBP", Debits: decimal.NewFromInt(10), Credits: decimal.NewFromInt(5)},
	}
	currencies := []domain.Currency{
		{CurrencyID: 1, Code: "USD", IsBase: true},
		{CurrencyID: 3, Code: "GBP"},
	}

	suite.mockJournalRepo.On("SumTradingByCurrency", mock.Anything, (*time.Time)(nil), (*time.Time)(nil)).Return(totals, nil).Once()
	suite.mockCurrencyRepo.On("ListCurrencies", mock.Anything).Return(currencies, nil).Once()

	_, err := suite.service.TradingBalance(ctx, dto.DateRangeRequest{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoExchangeRate)
}

func (suite *LedgerServiceTestSuite) TestTradingBalance_RejectsInvertedRange() {
	ctx := context.Background()
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := suite.service.TradingBalance(ctx, dto.DateRangeRequest{StartDate: &start, EndDate: &end})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SumTradingByCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
