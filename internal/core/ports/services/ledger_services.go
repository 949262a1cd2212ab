package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// LedgerSvcFacade defines the core ledger operations. CreateTransaction is the
// only way transactions and entries come into existence; all other components
// call into it rather than writing to the store directly.
type LedgerSvcFacade interface {
	// CreateTransaction validates the double-entry invariant (equal amounts,
	// equal currencies, exactly one DEBIT and one CREDIT) and atomically
	// persists the transaction row together with both entry rows. When tx is
	// non-nil the writes join the caller's database transaction; otherwise a
	// new one is opened and committed.
	CreateTransaction(ctx context.Context, tx pgx.Tx, shell domain.TransactionShell, legA domain.EntryInput, legB domain.EntryInput) (*domain.TransactionWithEntries, error)

	// GetTransactionWithEntries retrieves a transaction and its two entries.
	GetTransactionWithEntries(ctx context.Context, transactionID string) (*domain.TransactionWithEntries, error)

	// ListTransactionsByLogicalID retrieves all versions recorded under a
	// logical transaction id, ordered by version ascending.
	ListTransactionsByLogicalID(ctx context.Context, logicalTransactionID string) ([]domain.Transaction, error)
}
