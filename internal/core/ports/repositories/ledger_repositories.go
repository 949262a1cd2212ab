package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByLogicalID retrieves every version recorded under a
	// logical transaction id, ordered by version ascending.
	ListTransactionsByLogicalID(ctx context.Context, logicalTransactionID string) ([]domain.Transaction, error)
}

// EntryReader defines read operations for entry data, including the
// status-grouped aggregates behind the balance calculator.
type EntryReader interface {
	FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.Entry, error)

	// FindExpectedEntryCandidates retrieves EXPECTED entries on the given
	// account whose owning transaction is live and whose metadata order_id
	// equals orderID, ordered by creation time descending.
	FindExpectedEntryCandidates(ctx context.Context, accountID string, orderID string) ([]domain.EntryWithTransaction, error)

	GetBalanceSums(ctx context.Context, accountID string) (*domain.BalanceSums, error)
	GetBalanceSumsBatch(ctx context.Context, accountIDs []string) (map[string]domain.BalanceSums, error)
}

// LedgerWriter defines write operations for transactions and entries.
// Methods taking a pgx.Tx participate in the caller's database transaction.
type LedgerWriter interface {
	// SaveTransactionWithEntries inserts the transaction row and its entry rows
	// inside tx. The caller owns commit/rollback.
	SaveTransactionWithEntries(ctx context.Context, tx pgx.Tx, txn domain.Transaction, entries []domain.Entry) error

	// ArchiveTransactionWithEntries sets the transaction and all its entries to
	// ARCHIVED with discarded_at inside tx.
	ArchiveTransactionWithEntries(ctx context.Context, tx pgx.Tx, transactionID string, discardedAt time.Time) error

	// UpdateTransactionStatus transitions only the status of a transaction.
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, updatedAt time.Time) error
}

// LedgerRepositoryFacade combines all transaction/entry repository interfaces.
type LedgerRepositoryFacade interface {
	TransactionReader
	EntryReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
