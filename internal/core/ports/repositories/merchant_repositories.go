package repositories

import (
	"context"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// MerchantReader defines read operations for merchant data.
type MerchantReader interface {
	FindMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error)
	ListMerchants(ctx context.Context, limit int, offset int) ([]domain.Merchant, error)
}

// MerchantWriter defines write operations for merchant data.
type MerchantWriter interface {
	SaveMerchant(ctx context.Context, merchant domain.Merchant) error
}

// MerchantRepositoryFacade combines all merchant repository interfaces.
type MerchantRepositoryFacade interface {
	MerchantReader
	MerchantWriter
}
