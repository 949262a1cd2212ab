package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	"github.com/reconbooks/recon_backend/internal/models"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for transaction and entry data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:        d.TransactionID,
		LogicalTransactionID: d.LogicalTransactionID,
		Version:              d.Version,
		MerchantID:           d.MerchantID,
		Status:               models.TransactionStatus(d.Status),
		Amount:               d.Amount,
		Currency:             d.Currency,
		Metadata:             d.Metadata,
		DiscardedAt:          d.DiscardedAt,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:        m.TransactionID,
		LogicalTransactionID: m.LogicalTransactionID,
		Version:              m.Version,
		MerchantID:           m.MerchantID,
		Status:               domain.TransactionStatus(m.Status),
		Amount:               m.Amount,
		Currency:             m.Currency,
		Metadata:             m.Metadata,
		DiscardedAt:          m.DiscardedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func toModelEntry(d domain.Entry) models.Entry {
	return models.Entry{
		EntryID:       d.EntryID,
		AccountID:     d.AccountID,
		TransactionID: d.TransactionID,
		EntryType:     models.EntryType(d.EntryType),
		Amount:        d.Amount,
		Currency:      d.Currency,
		Status:        models.EntryStatus(d.Status),
		EffectiveDate: d.EffectiveDate,
		Metadata:      d.Metadata,
		DiscardedAt:   d.DiscardedAt,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainEntry(m models.Entry) domain.Entry {
	return domain.Entry{
		EntryID:       m.EntryID,
		AccountID:     m.AccountID,
		TransactionID: m.TransactionID,
		EntryType:     domain.EntryType(m.EntryType),
		Amount:        m.Amount,
		Currency:      m.Currency,
		Status:        domain.EntryStatus(m.Status),
		EffectiveDate: m.EffectiveDate,
		Metadata:      m.Metadata,
		DiscardedAt:   m.DiscardedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

const transactionColumns = `transaction_id, logical_transaction_id, version, merchant_id, status, amount, currency, metadata, discarded_at, created_at, last_updated_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.LogicalTransactionID,
		&m.Version,
		&m.MerchantID,
		&m.Status,
		&m.Amount,
		&m.Currency,
		&m.Metadata,
		&m.DiscardedAt,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

const entryColumns = `entry_id, account_id, transaction_id, entry_type, amount, currency, status, effective_date, metadata, discarded_at, created_at, last_updated_at`

func scanEntry(row pgx.Row) (models.Entry, error) {
	var m models.Entry
	err := row.Scan(
		&m.EntryID,
		&m.AccountID,
		&m.TransactionID,
		&m.EntryType,
		&m.Amount,
		&m.Currency,
		&m.Status,
		&m.EffectiveDate,
		&m.Metadata,
		&m.DiscardedAt,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveTransactionWithEntries inserts the transaction row and its entry rows
// inside tx. The partial unique index on live logical ids rejects a second
// live version; that surfaces as ErrConflict.
func (r *PgxLedgerRepository) SaveTransactionWithEntries(ctx context.Context, tx pgx.Tx, txn domain.Transaction, entries []domain.Entry) error {
	model := toModelTransaction(txn)

	txnQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.q(tx).Exec(ctx, txnQuery,
		model.TransactionID,
		model.LogicalTransactionID,
		model.Version,
		model.MerchantID,
		model.Status,
		model.Amount,
		model.Currency,
		model.Metadata,
		model.DiscardedAt,
		model.CreatedAt,
		model.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: logical transaction %s already has a live version", apperrors.ErrConflict, model.LogicalTransactionID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", model.TransactionID, err)
	}

	entryQuery := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, entry := range entries {
		em := toModelEntry(entry)
		_, err := r.q(tx).Exec(ctx, entryQuery,
			em.EntryID,
			em.AccountID,
			em.TransactionID,
			em.EntryType,
			em.Amount,
			em.Currency,
			em.Status,
			em.EffectiveDate,
			em.Metadata,
			em.DiscardedAt,
			em.CreatedAt,
			em.LastUpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry %s: %w", em.EntryID, err)
		}
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	model, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	txn := toDomainTransaction(model)
	return &txn, nil
}

// ListTransactionsByLogicalID retrieves every version recorded under a logical
// transaction id, ordered by version ascending.
func (r *PgxLedgerRepository) ListTransactionsByLogicalID(ctx context.Context, logicalTransactionID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE logical_transaction_id = $1
		ORDER BY version;
	`
	rows, err := r.Pool.Query(ctx, query, logicalTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for logical id %s: %w", logicalTransactionID, err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		model, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, toDomainTransaction(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating transaction rows: %w", err)
	}
	return txns, nil
}

// FindEntriesByTransactionID retrieves the entries of one transaction.
func (r *PgxLedgerRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE transaction_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0, 2)
	for rows.Next() {
		model, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, toDomainEntry(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating entry rows: %w", err)
	}
	return entries, nil
}

// FindExpectedEntryCandidates retrieves EXPECTED entries on the account whose
// owning transaction is live and whose metadata order_id matches, newest first.
func (r *PgxLedgerRepository) FindExpectedEntryCandidates(ctx context.Context, accountID string, orderID string) ([]domain.EntryWithTransaction, error) {
	query := `
		SELECT e.entry_id, e.account_id, e.transaction_id, e.entry_type, e.amount, e.currency, e.status, e.effective_date, e.metadata, e.discarded_at, e.created_at, e.last_updated_at,
		       t.transaction_id, t.logical_transaction_id, t.version, t.merchant_id, t.status, t.amount, t.currency, t.metadata, t.discarded_at, t.created_at, t.last_updated_at
		FROM entries e
		JOIN transactions t ON t.transaction_id = e.transaction_id
		WHERE e.account_id = $1
		  AND e.status = 'EXPECTED'
		  AND e.metadata ->> 'order_id' = $2
		  AND t.status NOT IN ('ARCHIVED', 'MISMATCH')
		ORDER BY e.created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expected entry candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]domain.EntryWithTransaction, 0)
	for rows.Next() {
		var em models.Entry
		var tm models.Transaction
		err := rows.Scan(
			&em.EntryID, &em.AccountID, &em.TransactionID, &em.EntryType, &em.Amount, &em.Currency, &em.Status, &em.EffectiveDate, &em.Metadata, &em.DiscardedAt, &em.CreatedAt, &em.LastUpdatedAt,
			&tm.TransactionID, &tm.LogicalTransactionID, &tm.Version, &tm.MerchantID, &tm.Status, &tm.Amount, &tm.Currency, &tm.Metadata, &tm.DiscardedAt, &tm.CreatedAt, &tm.LastUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		candidates = append(candidates, domain.EntryWithTransaction{
			Entry:       toDomainEntry(em),
			Transaction: toDomainTransaction(tm),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating candidate rows: %w", err)
	}
	return candidates, nil
}

// GetBalanceSums aggregates the account's entries grouped by type and status.
// POSTED sums feed the posted balance; POSTED plus EXPECTED feed the pending
// sums. ARCHIVED entries are excluded entirely.
func (r *PgxLedgerRepository) GetBalanceSums(ctx context.Context, accountID string) (*domain.BalanceSums, error) {
	query := `
		SELECT entry_type, status, COALESCE(SUM(amount), 0)
		FROM entries
		WHERE account_id = $1
		  AND status IN ('POSTED', 'EXPECTED')
		GROUP BY entry_type, status;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var sums domain.BalanceSums
	for rows.Next() {
		var entryType, status string
		var sum decimal.Decimal
		if err := rows.Scan(&entryType, &status, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan balance sum row: %w", err)
		}
		applyBalanceSum(&sums, entryType, status, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating balance sum rows: %w", err)
	}
	return &sums, nil
}

// GetBalanceSumsBatch aggregates entries for many accounts at once, keyed by
// account id. Accounts without entries are absent from the map; the zero value
// of BalanceSums is the correct empty aggregate.
func (r *PgxLedgerRepository) GetBalanceSumsBatch(ctx context.Context, accountIDs []string) (map[string]domain.BalanceSums, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.BalanceSums{}, nil
	}

	query := `
		SELECT account_id, entry_type, status, COALESCE(SUM(amount), 0)
		FROM entries
		WHERE account_id = ANY($1)
		  AND status IN ('POSTED', 'EXPECTED')
		GROUP BY account_id, entry_type, status;
	`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate entries: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.BalanceSums, len(accountIDs))
	for rows.Next() {
		var accountID, entryType, status string
		var sum decimal.Decimal
		if err := rows.Scan(&accountID, &entryType, &status, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan balance sum row: %w", err)
		}
		sums := result[accountID]
		applyBalanceSum(&sums, entryType, status, sum)
		result[accountID] = sums
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating balance sum rows: %w", err)
	}
	return result, nil
}

func applyBalanceSum(sums *domain.BalanceSums, entryType string, status string, sum decimal.Decimal) {
	// Pending sums count entries regardless of settlement, so POSTED rows
	// contribute to both posted and pending.
	switch entryType {
	case string(models.Debit):
		sums.PendingDebits = sums.PendingDebits.Add(sum)
		if status == string(models.EntryPosted) {
			sums.PostedDebits = sums.PostedDebits.Add(sum)
		}
	case string(models.Credit):
		sums.PendingCredits = sums.PendingCredits.Add(sum)
		if status == string(models.EntryPosted) {
			sums.PostedCredits = sums.PostedCredits.Add(sum)
		}
	}
}

// ArchiveTransactionWithEntries sets the transaction and all its entries to
// ARCHIVED with discarded_at inside tx.
func (r *PgxLedgerRepository) ArchiveTransactionWithEntries(ctx context.Context, tx pgx.Tx, transactionID string, discardedAt time.Time) error {
	txnQuery := `
		UPDATE transactions
		SET status = 'ARCHIVED', discarded_at = $2, last_updated_at = $2
		WHERE transaction_id = $1;
	`
	tag, err := r.q(tx).Exec(ctx, txnQuery, transactionID, discardedAt)
	if err != nil {
		return fmt.Errorf("failed to archive transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}

	entryQuery := `
		UPDATE entries
		SET status = 'ARCHIVED', discarded_at = $2, last_updated_at = $2
		WHERE transaction_id = $1;
	`
	if _, err := r.q(tx).Exec(ctx, entryQuery, transactionID, discardedAt); err != nil {
		return fmt.Errorf("failed to archive entries of transaction %s: %w", transactionID, err)
	}
	return nil
}

// UpdateTransactionStatus transitions only the status of a transaction.
func (r *PgxLedgerRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, updatedAt time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, last_updated_at = $3
		WHERE transaction_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, string(status), updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}
