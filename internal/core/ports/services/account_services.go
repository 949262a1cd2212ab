package services

import (
	"context"

	"github.com/reconbooks/recon_backend/internal/core/domain"
	"github.com/reconbooks/recon_backend/internal/dto"
)

// AccountReaderSvc defines read operations for account data.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by account id.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a merchant.
	ListAccounts(ctx context.Context, merchantID string, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data.
type AccountWriterSvc interface {
	// CreateAccount persists a new account owned by the given merchant.
	CreateAccount(ctx context.Context, merchantID string, req dto.CreateAccountRequest) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
