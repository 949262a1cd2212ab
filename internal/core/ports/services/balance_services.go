package services

import (
	"context"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// BalanceSvcFacade derives per-account balances by pure aggregation over
// posted/expected entries.
type BalanceSvcFacade interface {
	GetAccountBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error)

	// GetAccountBalances computes balances for many accounts at once, returned
	// as an account-id-keyed map.
	GetAccountBalances(ctx context.Context, accountIDs []string) (map[string]domain.AccountBalance, error)
}
