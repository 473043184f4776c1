package services_test

import (
	"context"
	"testing"

	"github.com/finbook/finbook/internal/apperrors"
	"github.com/finbook/finbook/internal/core/domain"
	"github.com/finbook/finbook/internal/core/ports"
	"github.com/finbook/finbook/internal/core/services"
	"github.com/finbook/finbook/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockCurrencyRepo *MockCurrencyRepository
	service          ports.AccountService

	usd    domain.Currency
	assets domain.Account
	cash   domain.Account
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockCurrencyRepo)

	suite.usd = domain.Currency{CurrencyID: 1, Code: "USD", IsBase: true}
	suite.assets = domain.Account{AccountID: 1, Name: "Assets", FullName: "Assets", CurrencyID: 1}
	assetsID := suite.assets.AccountID
	suite.cash = domain.Account{AccountID: 2, Name: "Cash", FullName: "Assets:Cash", ParentAccountID: &assetsID, CurrencyID: 1}
}

func (suite *AccountServiceTestSuite) TestResolveAccount_WalksLevels() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindChildAccount", mock.Anything, "Assets", (*int64)(nil)).Return(&suite.assets, nil).Once()
	suite.mockAccountRepo.On("FindChildAccount", mock.Anything, "Cash", &suite.assets.AccountID).Return(&suite.cash, nil).Once()

	account, err := suite.service.ResolveAccount(ctx, "Assets:Cash")

	suite.Require().NoError(err)
	suite.Equal(suite.cash.AccountID, account.AccountID)
	suite.Equal("Assets:Cash", account.FullName)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestResolveAccount_MissingLevelNamesFullPath() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindChildAccount", mock.Anything, "Assets", (*int64)(nil)).Return(&suite.assets, nil).Once()
	suite.mockAccountRepo.On("FindChildAccount", mock.Anything, "Gold", &suite.assets.AccountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveAccount(ctx, "Assets:Gold")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), "Assets:Gold")
}

func (suite *AccountServiceTestSuite) TestResolveAccount_MalformedPaths() {
	ctx := context.Background()
	for _, path := range []string{"", ":", "Assets:", ":Cash", "Assets::Cash", "Assets Cash", "Assets:Ca$h"} {
		_, err := suite.service.ResolveAccount(ctx, path)
		suite.ErrorIs(err, apperrors.ErrValidation, "path %q", path)
	}
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindChildAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Root() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "USD").Return(&suite.usd, nil).Once()
	suite.mockAccountRepo.On("FindChildAccount", mock.Anything, "Equity", (*int64)(nil)).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Equity" && a.FullName == "Equity" && a.ParentAccountID == nil && a.CurrencyID == 1
	})).Return(&domain.Account{AccountID: 5, Name: "Equity", FullName: "Equity", CurrencyID: 1}, nil).Once()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Path: "Equity", CurrencyCode: "USD"})

	suite.Require().NoError(err)
	suite.Equal(int64(5), account.AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NestedDerivesFullName() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "USD").Return(&suite.usd, nil).Once()
	suite.mockAccountRepo.On("FindChildAccount", mock.Anything, "Assets", (*int64)(nil)).Return(&suite.assets, nil).Once()
	suite.mockAccountRepo.On("FindChildAccount", mock.Anything, "Cash", &suite.assets.AccountID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.FullName == "Assets:Cash" && a.ParentAccountID != nil && *a.ParentAccountID == suite.assets.AccountID
	})).Return(&suite.cash, nil).Once()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Path: "Assets:Cash", CurrencyCode: "USD"})

	suite.Require().NoError(err)
	suite.Equal("Assets:Cash", account.FullName)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_MissingParent() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "USD").Return(&suite.usd, nil).Once()
	suite.mockAccountRepo.On("FindChildAccount", mock.Anything, "Liabilities", (*int64)(nil)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Path: "Liabilities:Loans", CurrencyCode: "USD"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Duplicate() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "USD").Return(&suite.usd, nil).Once()
	suite.mockAccountRepo.On("FindChildAccount", mock.Anything, "Assets", (*int64)(nil)).Return(&suite.assets, nil).Once()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Path: "Assets", CurrencyCode: "USD"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownCurrency() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Path: "Equity", CurrencyCode: "XXX"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), "XXX")
}

func (suite *AccountServiceTestSuite) TestGetAccountTree() {
	ctx := context.Background()
	assetsID := suite.assets.AccountID
	bank := domain.Account{AccountID: 3, Name: "Bank", FullName: "Assets:Bank", ParentAccountID: &assetsID, CurrencyID: 1}
	equity := domain.Account{AccountID: 4, Name: "Equity", FullName: "Equity", CurrencyID: 1}

	suite.mockAccountRepo.On("ListAccounts", mock.Anything).
		Return([]domain.Account{suite.assets, bank, suite.cash, equity}, nil).Once()
	suite.mockCurrencyRepo.On("ListCurrencies", mock.Anything).
		Return([]domain.Currency{suite.usd}, nil).Once()

	tree, err := suite.service.GetAccountTree(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(tree, 2)
	suite.Equal("Assets", tree[0].Name)
	suite.Require().Len(tree[0].Children, 2)
	suite.Equal("Bank", tree[0].Children[0].Name)
	suite.Equal("Cash", tree[0].Children[1].Name)
	suite.Equal("USD", tree[0].Children[1].CurrencyCode)
	suite.Equal("Equity", tree[1].Name)
	suite.Nil(tree[1].Children)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
