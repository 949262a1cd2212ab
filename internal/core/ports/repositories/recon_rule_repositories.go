package repositories

import (
	"context"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// ReconRuleReader defines read operations for recon rule data.
type ReconRuleReader interface {
	// FindRuleBySourceAccount looks up the rule where accountID is account_one
	// (the account whose staging entries generate new expectations).
	FindRuleBySourceAccount(ctx context.Context, accountID string) (*domain.ReconRule, error)

	// FindRuleByConfirmationAccount looks up the rule where accountID is
	// account_two (the account whose staging entries confirm expectations).
	FindRuleByConfirmationAccount(ctx context.Context, accountID string) (*domain.ReconRule, error)

	ListReconRulesByMerchant(ctx context.Context, merchantID string) ([]domain.ReconRule, error)
}

// ReconRuleWriter defines write operations for recon rule data.
type ReconRuleWriter interface {
	SaveReconRule(ctx context.Context, rule domain.ReconRule) error
}

// ReconRuleRepositoryFacade combines all recon rule repository interfaces.
type ReconRuleRepositoryFacade interface {
	ReconRuleReader
	ReconRuleWriter
}
