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

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		MerchantID:  d.MerchantID,
		Name:        d.Name,
		AccountType: models.AccountType(d.AccountType),
		Currency:    d.Currency,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		MerchantID:  m.MerchantID,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		Currency:    m.Currency,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// SaveAccount inserts a new account. Accounts are immutable after creation.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	model := toModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, merchant_id, name, account_type, currency, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.AccountID,
		model.MerchantID,
		model.Name,
		model.AccountType,
		model.Currency,
		model.CreatedAt,
		model.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, model.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", model.AccountID, err)
	}
	return nil
}

const accountColumns = `account_id, merchant_id, name, account_type, currency, created_at, last_updated_at`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.MerchantID,
		&m.Name,
		&m.AccountType,
		&m.Currency,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	model, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	account := toDomainAccount(model)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by account id. Missing
// ids are simply absent from the map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		model, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[model.AccountID] = toDomainAccount(model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating account rows: %w", err)
	}
	return accounts, nil
}

// ListAccountsByMerchant retrieves a page of a merchant's accounts.
func (r *PgxAccountRepository) ListAccountsByMerchant(ctx context.Context, merchantID string, limit int, offset int) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE merchant_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, merchantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for merchant %s: %w", merchantID, err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		model, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating account rows: %w", err)
	}
	return accounts, nil
}
