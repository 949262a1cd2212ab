package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/dto"
	"github.com/reconbooks/recon_backend/internal/middleware"
)

type merchantService struct {
	merchantRepo portsrepo.MerchantRepositoryFacade
}

// NewMerchantService creates a new MerchantService.
func NewMerchantService(merchantRepo portsrepo.MerchantRepositoryFacade) portssvc.MerchantSvcFacade {
	return &merchantService{merchantRepo: merchantRepo}
}

// Ensure merchantService implements the portssvc.MerchantSvcFacade interface
var _ portssvc.MerchantSvcFacade = (*merchantService)(nil)

// CreateMerchant creates a new merchant. Implements portssvc.MerchantSvcFacade.
func (s *merchantService) CreateMerchant(ctx context.Context, req dto.CreateMerchantRequest) (*domain.Merchant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	merchant := domain.Merchant{
		MerchantID: uuid.NewString(),
		Name:       req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.merchantRepo.SaveMerchant(ctx, merchant); err != nil {
		logger.Error("Failed to save merchant", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save merchant: %w", err)
	}

	logger.Info("Merchant created", slog.String("merchant_id", merchant.MerchantID))
	return &merchant, nil
}

// GetMerchantByID retrieves a merchant. Implements portssvc.MerchantSvcFacade.
func (s *merchantService) GetMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error) {
	merchant, err := s.merchantRepo.FindMerchantByID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find merchant %s: %w", merchantID, err)
	}
	return merchant, nil
}

// ListMerchants retrieves a page of merchants. Implements portssvc.MerchantSvcFacade.
func (s *merchantService) ListMerchants(ctx context.Context, params dto.ListMerchantsParams) ([]domain.Merchant, error) {
	merchants, err := s.merchantRepo.ListMerchants(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list merchants: %w", err)
	}
	return merchants, nil
}
