package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	"github.com/reconbooks/recon_backend/internal/models"
)

type PgxStagingEntryRepository struct {
	BaseRepository
}

// newPgxStagingEntryRepository creates a new repository for staging entry data.
func newPgxStagingEntryRepository(pool *pgxpool.Pool) portsrepo.StagingEntryRepositoryFacade {
	return &PgxStagingEntryRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxStagingEntryRepository implements portsrepo.StagingEntryRepositoryFacade
var _ portsrepo.StagingEntryRepositoryFacade = (*PgxStagingEntryRepository)(nil)

func toModelStagingEntry(d domain.StagingEntry) models.StagingEntry {
	return models.StagingEntry{
		StagingEntryID: d.StagingEntryID,
		AccountID:      d.AccountID,
		EntryType:      models.EntryType(d.EntryType),
		Amount:         d.Amount,
		Currency:       d.Currency,
		Status:         models.StagingEntryStatus(d.Status),
		ProcessingMode: string(d.ProcessingMode),
		EffectiveDate:  d.EffectiveDate,
		Metadata:       d.Metadata,
		DiscardedAt:    d.DiscardedAt,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainStagingEntry(m models.StagingEntry) domain.StagingEntry {
	return domain.StagingEntry{
		StagingEntryID: m.StagingEntryID,
		AccountID:      m.AccountID,
		EntryType:      domain.EntryType(m.EntryType),
		Amount:         m.Amount,
		Currency:       m.Currency,
		Status:         domain.StagingEntryStatus(m.Status),
		ProcessingMode: domain.ProcessingMode(m.ProcessingMode),
		EffectiveDate:  m.EffectiveDate,
		Metadata:       m.Metadata,
		DiscardedAt:    m.DiscardedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

const stagingEntryColumns = `staging_entry_id, account_id, entry_type, amount, currency, status, processing_mode, effective_date, metadata, discarded_at, created_at, last_updated_at`

func scanStagingEntry(row pgx.Row) (models.StagingEntry, error) {
	var m models.StagingEntry
	err := row.Scan(
		&m.StagingEntryID,
		&m.AccountID,
		&m.EntryType,
		&m.Amount,
		&m.Currency,
		&m.Status,
		&m.ProcessingMode,
		&m.EffectiveDate,
		&m.Metadata,
		&m.DiscardedAt,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveStagingEntry inserts a staging entry, inside tx when one is supplied.
func (r *PgxStagingEntryRepository) SaveStagingEntry(ctx context.Context, tx pgx.Tx, entry domain.StagingEntry) error {
	model := toModelStagingEntry(entry)

	query := `
		INSERT INTO staging_entries (` + stagingEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.q(tx).Exec(ctx, query,
		model.StagingEntryID,
		model.AccountID,
		model.EntryType,
		model.Amount,
		model.Currency,
		model.Status,
		model.ProcessingMode,
		model.EffectiveDate,
		model.Metadata,
		model.DiscardedAt,
		model.CreatedAt,
		model.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: staging entry %s already exists", apperrors.ErrDuplicate, model.StagingEntryID)
		}
		return fmt.Errorf("failed to save staging entry %s: %w", model.StagingEntryID, err)
	}
	return nil
}

// UpdateStagingEntryOutcome transitions the status, merges the given metadata
// keys into the stored blob and optionally sets discarded_at. The metadata
// merge happens in SQL so concurrent annotations never clobber each other.
func (r *PgxStagingEntryRepository) UpdateStagingEntryOutcome(ctx context.Context, tx pgx.Tx, stagingEntryID string, status domain.StagingEntryStatus, metadata domain.Metadata, discardedAt *time.Time, updatedAt time.Time) error {
	query := `
		UPDATE staging_entries
		SET status = $2,
		    metadata = metadata || $3::jsonb,
		    discarded_at = COALESCE($4, discarded_at),
		    last_updated_at = $5
		WHERE staging_entry_id = $1;
	`
	if metadata == nil {
		metadata = domain.Metadata{}
	}
	tag, err := r.q(tx).Exec(ctx, query, stagingEntryID, string(status), metadata, discardedAt, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update staging entry %s: %w", stagingEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: staging entry %s", apperrors.ErrNotFound, stagingEntryID)
	}
	return nil
}

// FindStagingEntryByID retrieves a staging entry by its ID.
func (r *PgxStagingEntryRepository) FindStagingEntryByID(ctx context.Context, stagingEntryID string) (*domain.StagingEntry, error) {
	query := `SELECT ` + stagingEntryColumns + ` FROM staging_entries WHERE staging_entry_id = $1;`

	model, err := scanStagingEntry(r.Pool.QueryRow(ctx, query, stagingEntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find staging entry %s: %w", stagingEntryID, err)
	}

	entry := toDomainStagingEntry(model)
	return &entry, nil
}

// ListStagingEntriesByStatus retrieves a page of staging entries in the given
// status, oldest first.
func (r *PgxStagingEntryRepository) ListStagingEntriesByStatus(ctx context.Context, status domain.StagingEntryStatus, limit int, offset int) ([]domain.StagingEntry, error) {
	query := `
		SELECT ` + stagingEntryColumns + `
		FROM staging_entries
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list staging entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.StagingEntry, 0)
	for rows.Next() {
		model, err := scanStagingEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staging entry row: %w", err)
		}
		entries = append(entries, toDomainStagingEntry(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating staging entry rows: %w", err)
	}
	return entries, nil
}
