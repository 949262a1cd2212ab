package services

import (
	"context"

	"github.com/reconbooks/recon_backend/internal/core/domain"
	"github.com/reconbooks/recon_backend/internal/dto"
)

// ReconSvcFacade is the recon engine: it consumes one staging entry and drives
// the ledger service to create or evolve transactions.
type ReconSvcFacade interface {
	// ProcessStagingEntry runs the state machine selected by the staging
	// entry's processing mode. On every failure branch the staging entry is
	// marked NEEDS_MANUAL_REVIEW with structured error metadata before the
	// error is propagated; on success it is marked PROCESSED and discarded.
	ProcessStagingEntry(ctx context.Context, stagingEntryID string) (*domain.ReconResult, error)
}

// ReconRuleSvcFacade defines recon rule operations.
type ReconRuleSvcFacade interface {
	CreateReconRule(ctx context.Context, merchantID string, req dto.CreateReconRuleRequest) (*domain.ReconRule, error)
	ListReconRules(ctx context.Context, merchantID string) ([]domain.ReconRule, error)
}
