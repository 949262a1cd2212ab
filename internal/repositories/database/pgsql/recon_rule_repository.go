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

type PgxReconRuleRepository struct {
	BaseRepository
}

// newPgxReconRuleRepository creates a new repository for recon rule data.
func newPgxReconRuleRepository(pool *pgxpool.Pool) portsrepo.ReconRuleRepositoryFacade {
	return &PgxReconRuleRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxReconRuleRepository implements portsrepo.ReconRuleRepositoryFacade
var _ portsrepo.ReconRuleRepositoryFacade = (*PgxReconRuleRepository)(nil)

func toDomainReconRule(m models.ReconRule) domain.ReconRule {
	return domain.ReconRule{
		ReconRuleID:  m.ReconRuleID,
		MerchantID:   m.MerchantID,
		AccountOneID: m.AccountOneID,
		AccountTwoID: m.AccountTwoID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

const reconRuleColumns = `recon_rule_id, merchant_id, account_one_id, account_two_id, created_at, last_updated_at`

func scanReconRule(row pgx.Row) (models.ReconRule, error) {
	var m models.ReconRule
	err := row.Scan(
		&m.ReconRuleID,
		&m.MerchantID,
		&m.AccountOneID,
		&m.AccountTwoID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveReconRule inserts a new recon rule.
func (r *PgxReconRuleRepository) SaveReconRule(ctx context.Context, rule domain.ReconRule) error {
	query := `
		INSERT INTO recon_rules (` + reconRuleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		rule.ReconRuleID,
		rule.MerchantID,
		rule.AccountOneID,
		rule.AccountTwoID,
		rule.CreatedAt,
		rule.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: recon rule for this account pair already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save recon rule %s: %w", rule.ReconRuleID, err)
	}
	return nil
}

// FindRuleBySourceAccount looks up the rule where accountID is account_one.
func (r *PgxReconRuleRepository) FindRuleBySourceAccount(ctx context.Context, accountID string) (*domain.ReconRule, error) {
	return r.findRuleByColumn(ctx, "account_one_id", accountID)
}

// FindRuleByConfirmationAccount looks up the rule where accountID is account_two.
func (r *PgxReconRuleRepository) FindRuleByConfirmationAccount(ctx context.Context, accountID string) (*domain.ReconRule, error) {
	return r.findRuleByColumn(ctx, "account_two_id", accountID)
}

func (r *PgxReconRuleRepository) findRuleByColumn(ctx context.Context, column string, accountID string) (*domain.ReconRule, error) {
	// column is one of two compile-time constants, never user input.
	query := `SELECT ` + reconRuleColumns + ` FROM recon_rules WHERE ` + column + ` = $1;`

	model, err := scanReconRule(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find recon rule for account %s: %w", accountID, err)
	}

	rule := toDomainReconRule(model)
	return &rule, nil
}

// ListReconRulesByMerchant retrieves a merchant's recon rules.
func (r *PgxReconRuleRepository) ListReconRulesByMerchant(ctx context.Context, merchantID string) ([]domain.ReconRule, error) {
	query := `
		SELECT ` + reconRuleColumns + `
		FROM recon_rules
		WHERE merchant_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recon rules for merchant %s: %w", merchantID, err)
	}
	defer rows.Close()

	rules := make([]domain.ReconRule, 0)
	for rows.Next() {
		model, err := scanReconRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recon rule row: %w", err)
		}
		rules = append(rules, toDomainReconRule(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating recon rule rows: %w", err)
	}
	return rules, nil
}
