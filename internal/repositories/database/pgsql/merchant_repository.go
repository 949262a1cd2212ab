package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	"github.com/reconbooks/recon_backend/internal/models"
)

type PgxMerchantRepository struct {
	BaseRepository
}

// newPgxMerchantRepository creates a new repository for merchant data.
func newPgxMerchantRepository(pool *pgxpool.Pool) portsrepo.MerchantRepositoryFacade {
	return &PgxMerchantRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxMerchantRepository implements portsrepo.MerchantRepositoryFacade
var _ portsrepo.MerchantRepositoryFacade = (*PgxMerchantRepository)(nil)

func toModelMerchant(d domain.Merchant) models.Merchant {
	return models.Merchant{
		MerchantID: d.MerchantID,
		Name:       d.Name,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainMerchant(m models.Merchant) domain.Merchant {
	return domain.Merchant{
		MerchantID: m.MerchantID,
		Name:       m.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// SaveMerchant inserts a new merchant.
func (r *PgxMerchantRepository) SaveMerchant(ctx context.Context, merchant domain.Merchant) error {
	model := toModelMerchant(merchant)

	query := `
		INSERT INTO merchants (merchant_id, name, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.MerchantID,
		model.Name,
		model.CreatedAt,
		model.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: merchant %s already exists", apperrors.ErrDuplicate, model.MerchantID)
		}
		return fmt.Errorf("failed to save merchant %s: %w", model.MerchantID, err)
	}
	return nil
}

// FindMerchantByID retrieves a merchant by its ID.
func (r *PgxMerchantRepository) FindMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error) {
	query := `
		SELECT merchant_id, name, created_at, last_updated_at
		FROM merchants
		WHERE merchant_id = $1;
	`
	var model models.Merchant
	err := r.Pool.QueryRow(ctx, query, merchantID).Scan(
		&model.MerchantID,
		&model.Name,
		&model.CreatedAt,
		&model.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find merchant %s: %w", merchantID, err)
	}

	merchant := toDomainMerchant(model)
	return &merchant, nil
}

// ListMerchants retrieves a page of merchants ordered by creation time.
func (r *PgxMerchantRepository) ListMerchants(ctx context.Context, limit int, offset int) ([]domain.Merchant, error) {
	query := `
		SELECT merchant_id, name, created_at, last_updated_at
		FROM merchants
		ORDER BY created_at
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list merchants: %w", err)
	}
	defer rows.Close()

	merchants := make([]domain.Merchant, 0)
	for rows.Next() {
		var model models.Merchant
		if err := rows.Scan(&model.MerchantID, &model.Name, &model.CreatedAt, &model.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan merchant row: %w", err)
		}
		merchants = append(merchants, toDomainMerchant(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating merchant rows: %w", err)
	}
	return merchants, nil
}
