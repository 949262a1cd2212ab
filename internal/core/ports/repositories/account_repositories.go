package repositories

import (
	"context"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by account id.
	// Missing ids are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	ListAccountsByMerchant(ctx context.Context, merchantID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
