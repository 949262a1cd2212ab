package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/core/services"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockLedgerRepo  *MockLedgerRepository
	service         portssvc.BalanceSvcFacade
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewBalanceService(suite.mockAccountRepo, suite.mockLedgerRepo)
}

func sums(postedDebits, postedCredits, pendingDebits, pendingCredits string) domain.BalanceSums {
	return domain.BalanceSums{
		PostedDebits:   decimal.RequireFromString(postedDebits),
		PostedCredits:  decimal.RequireFromString(postedCredits),
		PendingDebits:  decimal.RequireFromString(pendingDebits),
		PendingCredits: decimal.RequireFromString(pendingCredits),
	}
}

func (suite *BalanceServiceTestSuite) TestGetAccountBalance_DebitNormal() {
	ctx := context.Background()
	account := &domain.Account{AccountID: uuid.NewString(), AccountType: domain.DebitNormal, Currency: "USD"}
	accountSums := sums("100", "30", "120", "50")

	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(account, nil).Once()
	suite.mockLedgerRepo.On("GetBalanceSums", mock.Anything, account.AccountID).Return(&accountSums, nil).Once()

	balance, err := suite.service.GetAccountBalance(ctx, account.AccountID)

	suite.Require().NoError(err)
	suite.True(balance.PostedBalance.Equal(decimal.RequireFromString("70")), "posted: got %s", balance.PostedBalance)
	suite.True(balance.PendingBalance.Equal(decimal.RequireFromString("70")), "pending: got %s", balance.PendingBalance)
	suite.True(balance.AvailableBalance.Equal(decimal.RequireFromString("50")), "available: got %s", balance.AvailableBalance)
	suite.Equal("USD", balance.Currency)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestGetAccountBalance_CreditNormal() {
	ctx := context.Background()
	account := &domain.Account{AccountID: uuid.NewString(), AccountType: domain.CreditNormal, Currency: "USD"}
	accountSums := sums("30", "100", "50", "120")

	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(account, nil).Once()
	suite.mockLedgerRepo.On("GetBalanceSums", mock.Anything, account.AccountID).Return(&accountSums, nil).Once()

	balance, err := suite.service.GetAccountBalance(ctx, account.AccountID)

	suite.Require().NoError(err)
	suite.True(balance.PostedBalance.Equal(decimal.RequireFromString("70")))
	suite.True(balance.PendingBalance.Equal(decimal.RequireFromString("70")))
	suite.True(balance.AvailableBalance.Equal(decimal.RequireFromString("50")))
}

func (suite *BalanceServiceTestSuite) TestGetAccountBalances_MissingAggregateIsZero() {
	ctx := context.Background()
	active := domain.Account{AccountID: uuid.NewString(), AccountType: domain.DebitNormal, Currency: "USD"}
	empty := domain.Account{AccountID: uuid.NewString(), AccountType: domain.DebitNormal, Currency: "USD"}
	accountIDs := []string{active.AccountID, empty.AccountID}

	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, accountIDs).
		Return(map[string]domain.Account{active.AccountID: active, empty.AccountID: empty}, nil).Once()
	// The empty account has no rows to aggregate and is absent from the map.
	suite.mockLedgerRepo.On("GetBalanceSumsBatch", mock.Anything, accountIDs).
		Return(map[string]domain.BalanceSums{active.AccountID: sums("10", "4", "10", "4")}, nil).Once()

	balances, err := suite.service.GetAccountBalances(ctx, accountIDs)

	suite.Require().NoError(err)
	suite.Len(balances, 2)
	suite.True(balances[active.AccountID].PostedBalance.Equal(decimal.RequireFromString("6")))
	suite.True(balances[empty.AccountID].PostedBalance.IsZero())
	suite.True(balances[empty.AccountID].PendingBalance.IsZero())
	suite.True(balances[empty.AccountID].AvailableBalance.IsZero())
}

func (suite *BalanceServiceTestSuite) TestGetAccountBalances_UnknownAccount() {
	ctx := context.Background()
	known := domain.Account{AccountID: uuid.NewString(), AccountType: domain.DebitNormal, Currency: "USD"}
	unknownID := uuid.NewString()
	accountIDs := []string{known.AccountID, unknownID}

	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, accountIDs).
		Return(map[string]domain.Account{known.AccountID: known}, nil).Once()

	balances, err := suite.service.GetAccountBalances(ctx, accountIDs)

	suite.Require().Error(err)
	suite.Nil(balances)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "GetBalanceSumsBatch", mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestGetAccountBalances_EmptyInput() {
	balances, err := suite.service.GetAccountBalances(context.Background(), nil)

	suite.Require().NoError(err)
	suite.Empty(balances)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func TestBalanceService(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
