package services

import (
	"context"
	"fmt"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
)

// balanceService derives balances by aggregating entries. Nothing is stored;
// the entry table is the single source of truth.
type balanceService struct {
	accountRepo portsrepo.AccountReader
	entryRepo   portsrepo.EntryReader
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(accountRepo portsrepo.AccountReader, entryRepo portsrepo.EntryReader) portssvc.BalanceSvcFacade {
	return &balanceService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// Ensure balanceService implements the portssvc.BalanceSvcFacade interface
var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// deriveBalance applies the account's sign convention to the raw sums.
//
// For a DEBIT_NORMAL account debits increase the balance; pending balance
// counts expected entries as if settled; available balance settles only posted
// inflows but reserves for every pending outflow.
func deriveBalance(account domain.Account, sums domain.BalanceSums) domain.AccountBalance {
	balance := domain.AccountBalance{
		AccountID: account.AccountID,
		Currency:  account.Currency,
	}
	switch account.AccountType {
	case domain.CreditNormal:
		balance.PostedBalance = sums.PostedCredits.Sub(sums.PostedDebits)
		balance.PendingBalance = sums.PendingCredits.Sub(sums.PendingDebits)
		balance.AvailableBalance = sums.PostedCredits.Sub(sums.PendingDebits)
	default: // DEBIT_NORMAL
		balance.PostedBalance = sums.PostedDebits.Sub(sums.PostedCredits)
		balance.PendingBalance = sums.PendingDebits.Sub(sums.PendingCredits)
		balance.AvailableBalance = sums.PostedDebits.Sub(sums.PendingCredits)
	}
	return balance
}

// GetAccountBalance computes the balance of one account.
// Implements portssvc.BalanceSvcFacade.
func (s *balanceService) GetAccountBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	sums, err := s.entryRepo.GetBalanceSums(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate entries for account %s: %w", accountID, err)
	}

	balance := deriveBalance(*account, *sums)
	return &balance, nil
}

// GetAccountBalances computes balances for many accounts at once.
// Implements portssvc.BalanceSvcFacade.
func (s *balanceService) GetAccountBalances(ctx context.Context, accountIDs []string) (map[string]domain.AccountBalance, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.AccountBalance{}, nil
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	for _, accountID := range accountIDs {
		if _, found := accounts[accountID]; !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
	}

	sums, err := s.entryRepo.GetBalanceSumsBatch(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate entries: %w", err)
	}

	balances := make(map[string]domain.AccountBalance, len(accountIDs))
	for _, accountID := range accountIDs {
		// Accounts with no entries aggregate to zero sums.
		balances[accountID] = deriveBalance(accounts[accountID], sums[accountID])
	}
	return balances, nil
}
