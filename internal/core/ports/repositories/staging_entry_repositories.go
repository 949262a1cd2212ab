package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// StagingEntryReader defines read operations for staging entry data.
type StagingEntryReader interface {
	FindStagingEntryByID(ctx context.Context, stagingEntryID string) (*domain.StagingEntry, error)
	ListStagingEntriesByStatus(ctx context.Context, status domain.StagingEntryStatus, limit int, offset int) ([]domain.StagingEntry, error)
}

// StagingEntryWriter defines write operations for staging entry data. Staging
// entries are never mutated except for the terminal status transition.
type StagingEntryWriter interface {
	// SaveStagingEntry inserts a staging entry. When tx is non-nil the insert
	// participates in the caller's database transaction (ingestion persists the
	// staging entry and its recon task atomically).
	SaveStagingEntry(ctx context.Context, tx pgx.Tx, entry domain.StagingEntry) error

	// UpdateStagingEntryOutcome transitions the status, merges the given
	// metadata keys into the stored blob and optionally sets discarded_at.
	// When tx is non-nil the update participates in the caller's database
	// transaction (the fulfillment path commits it with the evolved ledger rows).
	UpdateStagingEntryOutcome(ctx context.Context, tx pgx.Tx, stagingEntryID string, status domain.StagingEntryStatus, metadata domain.Metadata, discardedAt *time.Time, updatedAt time.Time) error
}

// StagingEntryRepositoryFacade combines all staging entry repository interfaces.
type StagingEntryRepositoryFacade interface {
	StagingEntryReader
	StagingEntryWriter
}
