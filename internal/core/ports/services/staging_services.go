package services

import (
	"context"

	"github.com/reconbooks/recon_backend/internal/core/domain"
	"github.com/reconbooks/recon_backend/internal/dto"
)

// StagingEntrySvcFacade defines staging entry ingestion and lookup.
type StagingEntrySvcFacade interface {
	// CreateStagingEntry persists a staging entry and enqueues its recon task
	// in one database transaction, so a persisted entry always has a task.
	CreateStagingEntry(ctx context.Context, req dto.CreateStagingEntryRequest) (*domain.StagingEntry, error)

	GetStagingEntryByID(ctx context.Context, stagingEntryID string) (*domain.StagingEntry, error)

	ListStagingEntriesByStatus(ctx context.Context, status domain.StagingEntryStatus, limit int, offset int) ([]domain.StagingEntry, error)
}
