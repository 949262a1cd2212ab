package services

import (
	"context"

	"github.com/reconbooks/recon_backend/internal/core/domain"
	"github.com/reconbooks/recon_backend/internal/dto"
)

// MerchantSvcFacade defines merchant operations.
type MerchantSvcFacade interface {
	CreateMerchant(ctx context.Context, req dto.CreateMerchantRequest) (*domain.Merchant, error)
	GetMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error)
	ListMerchants(ctx context.Context, params dto.ListMerchantsParams) ([]domain.Merchant, error)
}
