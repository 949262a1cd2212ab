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

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo   *MockLedgerRepository
	mockMerchantRepo *MockMerchantRepository
	mockAccountRepo  *MockAccountRepository
	service          portssvc.LedgerSvcFacade

	merchantID string
	debitAcc   domain.Account
	creditAcc  domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockMerchantRepo = new(MockMerchantRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockMerchantRepo, suite.mockAccountRepo)

	suite.merchantID = uuid.NewString()
	suite.debitAcc = domain.Account{AccountID: uuid.NewString(), MerchantID: suite.merchantID, AccountType: domain.DebitNormal, Currency: "USD"}
	suite.creditAcc = domain.Account{AccountID: uuid.NewString(), MerchantID: suite.merchantID, AccountType: domain.CreditNormal, Currency: "USD"}
}

func (suite *LedgerServiceTestSuite) shell() domain.TransactionShell {
	return domain.TransactionShell{
		LogicalTransactionID: uuid.NewString(),
		Version:              1,
		MerchantID:           suite.merchantID,
		Status:               domain.TransactionExpected,
	}
}

func (suite *LedgerServiceTestSuite) legs(amount string) (domain.EntryInput, domain.EntryInput) {
	amt := decimal.RequireFromString(amount)
	legA := domain.EntryInput{AccountID: suite.debitAcc.AccountID, EntryType: domain.Debit, Amount: amt, Currency: "USD", Status: domain.EntryPosted}
	legB := domain.EntryInput{AccountID: suite.creditAcc.AccountID, EntryType: domain.Credit, Amount: amt, Currency: "USD", Status: domain.EntryExpected}
	return legA, legB
}

func (suite *LedgerServiceTestSuite) expectMerchantAndAccounts() {
	suite.mockMerchantRepo.On("FindMerchantByID", mock.Anything, suite.merchantID).
		Return(&domain.Merchant{MerchantID: suite.merchantID}, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).
		Return(map[string]domain.Account{
			suite.debitAcc.AccountID:  suite.debitAcc,
			suite.creditAcc.AccountID: suite.creditAcc,
		}, nil).Once()
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_Success_OwnTx() {
	ctx := context.Background()
	legA, legB := suite.legs("100.50")
	suite.expectMerchantAndAccounts()

	tx := fakeTx{}
	suite.mockLedgerRepo.On("Begin", mock.Anything).Return(tx, nil).Once()
	suite.mockLedgerRepo.On("SaveTransactionWithEntries", mock.Anything, tx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Version == 1 && t.Status == domain.TransactionExpected && t.Amount.Equal(legA.Amount) && t.Currency == "USD"
	}), mock.MatchedBy(func(entries []domain.Entry) bool {
		return len(entries) == 2 && entries[0].EntryType != entries[1].EntryType
	})).Return(nil).Once()
	suite.mockLedgerRepo.On("Commit", mock.Anything, tx).Return(nil).Once()
	suite.mockLedgerRepo.On("Rollback", mock.Anything, tx).Return(nil).Maybe()

	result, err := suite.service.CreateTransaction(ctx, nil, suite.shell(), legA, legB)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Len(result.Entries, 2)
	suite.Equal(result.Transaction.TransactionID, result.Entries[0].TransactionID)
	suite.True(result.Transaction.Amount.Equal(legA.Amount))
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_Success_CallerTx() {
	ctx := context.Background()
	legA, legB := suite.legs("10")
	suite.expectMerchantAndAccounts()

	tx := fakeTx{}
	suite.mockLedgerRepo.On("SaveTransactionWithEntries", mock.Anything, tx, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.CreateTransaction(ctx, tx, suite.shell(), legA, legB)

	suite.Require().NoError(err)
	suite.NotNil(result)
	// Begin/Commit must not be called when the caller owns the transaction.
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_UnbalancedAmounts() {
	ctx := context.Background()
	legA, legB := suite.legs("100")
	legB.Amount = decimal.RequireFromString("99.99")
	suite.mockMerchantRepo.On("FindMerchantByID", mock.Anything, suite.merchantID).
		Return(&domain.Merchant{MerchantID: suite.merchantID}, nil).Once()

	result, err := suite.service.CreateTransaction(ctx, nil, suite.shell(), legA, legB)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrUnbalancedAmount)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransactionWithEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_SameEntryType() {
	ctx := context.Background()
	legA, legB := suite.legs("100")
	legB.EntryType = domain.Debit
	suite.mockMerchantRepo.On("FindMerchantByID", mock.Anything, suite.merchantID).
		Return(&domain.Merchant{MerchantID: suite.merchantID}, nil).Once()

	result, err := suite.service.CreateTransaction(ctx, nil, suite.shell(), legA, legB)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrEntryTypePair)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_CurrencyMismatchBetweenLegs() {
	ctx := context.Background()
	legA, legB := suite.legs("100")
	legB.Currency = "EUR"
	suite.mockMerchantRepo.On("FindMerchantByID", mock.Anything, suite.merchantID).
		Return(&domain.Merchant{MerchantID: suite.merchantID}, nil).Once()

	result, err := suite.service.CreateTransaction(ctx, nil, suite.shell(), legA, legB)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrCurrencyMismatch)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_NonPositiveAmount() {
	ctx := context.Background()
	legA, legB := suite.legs("100")
	legA.Amount = decimal.Zero
	legB.Amount = decimal.Zero
	suite.mockMerchantRepo.On("FindMerchantByID", mock.Anything, suite.merchantID).
		Return(&domain.Merchant{MerchantID: suite.merchantID}, nil).Once()

	result, err := suite.service.CreateTransaction(ctx, nil, suite.shell(), legA, legB)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrNonPositiveAmount)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_AccountCurrencyMismatch() {
	ctx := context.Background()
	legA, legB := suite.legs("100")
	legA.Currency = "EUR"
	legB.Currency = "EUR"
	suite.expectMerchantAndAccounts()

	result, err := suite.service.CreateTransaction(ctx, nil, suite.shell(), legA, legB)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrAccountCurrency)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_AccountMissing() {
	ctx := context.Background()
	legA, legB := suite.legs("100")
	suite.mockMerchantRepo.On("FindMerchantByID", mock.Anything, suite.merchantID).
		Return(&domain.Merchant{MerchantID: suite.merchantID}, nil).Once()
	// Only the debit account exists.
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).
		Return(map[string]domain.Account{suite.debitAcc.AccountID: suite.debitAcc}, nil).Once()

	result, err := suite.service.CreateTransaction(ctx, nil, suite.shell(), legA, legB)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrLedgerAccount)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_MerchantNotFound() {
	ctx := context.Background()
	legA, legB := suite.legs("100")
	suite.mockMerchantRepo.On("FindMerchantByID", mock.Anything, suite.merchantID).
		Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.CreateTransaction(ctx, nil, suite.shell(), legA, legB)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrMerchantNotFound)
}

func (suite *LedgerServiceTestSuite) TestGetTransactionWithEntries_Success() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	txn := &domain.Transaction{TransactionID: transactionID, Status: domain.TransactionPosted}
	entries := []domain.Entry{{EntryID: uuid.NewString()}, {EntryID: uuid.NewString()}}

	suite.mockLedgerRepo.On("FindTransactionByID", mock.Anything, transactionID).Return(txn, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByTransactionID", mock.Anything, transactionID).Return(entries, nil).Once()

	result, err := suite.service.GetTransactionWithEntries(ctx, transactionID)

	suite.Require().NoError(err)
	suite.Equal(*txn, result.Transaction)
	suite.Len(result.Entries, 2)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestListTransactionsByLogicalID_EmptyIsNotFound() {
	ctx := context.Background()
	logicalID := uuid.NewString()

	suite.mockLedgerRepo.On("ListTransactionsByLogicalID", mock.Anything, logicalID).
		Return([]domain.Transaction{}, nil).Once()

	result, err := suite.service.ListTransactionsByLogicalID(ctx, logicalID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
