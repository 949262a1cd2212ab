package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/middleware"
)

var (
	ErrUnbalancedAmount  = errors.New("transaction legs do not balance: amounts differ")
	ErrCurrencyMismatch  = errors.New("transaction legs use different currencies")
	ErrEntryTypePair     = errors.New("transaction legs must be exactly one DEBIT and one CREDIT")
	ErrMerchantNotFound  = errors.New("merchant not found")
	ErrLedgerAccount     = errors.New("account not found for transaction leg")
	ErrAccountCurrency   = errors.New("leg currency does not match account currency")
	ErrMissingLeg        = errors.New("transaction requires both legs")
	ErrNonPositiveAmount = errors.New("entry amount must be positive")
)

// ledgerService provides the core transaction and entry operations. It is the
// sole creation path for transactions and entries.
type ledgerService struct {
	ledgerRepo   portsrepo.LedgerRepositoryWithTx
	merchantRepo portsrepo.MerchantReader
	accountRepo  portsrepo.AccountReader
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryWithTx, merchantRepo portsrepo.MerchantReader, accountRepo portsrepo.AccountReader) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:   ledgerRepo,
		merchantRepo: merchantRepo,
		accountRepo:  accountRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateLegPair enforces the double-entry invariant on the two legs.
// Each failure carries a distinct, reportable error.
func (s *ledgerService) validateLegPair(legA, legB domain.EntryInput) error {
	if legA.AccountID == "" || legB.AccountID == "" {
		return fmt.Errorf("%w: leg account id is empty", ErrMissingLeg)
	}
	if legA.Amount.Sign() <= 0 || legB.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: got %s and %s", ErrNonPositiveAmount, legA.Amount.String(), legB.Amount.String())
	}
	// Exact decimal comparison, no floating rounding.
	if !legA.Amount.Equal(legB.Amount) {
		return fmt.Errorf("%w: %s vs %s", ErrUnbalancedAmount, legA.Amount.String(), legB.Amount.String())
	}
	if legA.Currency != legB.Currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, legA.Currency, legB.Currency)
	}
	if !legA.EntryType.Valid() || !legB.EntryType.Valid() {
		return fmt.Errorf("%w: invalid entry type", apperrors.ErrValidation)
	}
	// Order-independent: exactly one DEBIT and one CREDIT.
	if legA.EntryType == legB.EntryType {
		return fmt.Errorf("%w: got %s and %s", ErrEntryTypePair, legA.EntryType, legB.EntryType)
	}
	if !legA.Status.Valid() || !legB.Status.Valid() {
		return fmt.Errorf("%w: invalid entry status", apperrors.ErrValidation)
	}
	return nil
}

// CreateTransaction creates a transaction and its two legs atomically.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) CreateTransaction(ctx context.Context, tx pgx.Tx, shell domain.TransactionShell, legA, legB domain.EntryInput) (*domain.TransactionWithEntries, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// --- Shell validation ---
	if !shell.Status.Valid() {
		return nil, fmt.Errorf("%w: unrecognized transaction status %q", apperrors.ErrValidation, shell.Status)
	}
	if shell.Version < 1 {
		return nil, fmt.Errorf("%w: transaction version must be >= 1, got %d", apperrors.ErrValidation, shell.Version)
	}
	if shell.LogicalTransactionID == "" {
		return nil, fmt.Errorf("%w: logical transaction id is required", apperrors.ErrValidation)
	}

	if _, err := s.merchantRepo.FindMerchantByID(ctx, shell.MerchantID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %s", ErrMerchantNotFound, shell.MerchantID)
		}
		return nil, fmt.Errorf("failed to verify merchant %s: %w", shell.MerchantID, err)
	}

	// --- Balance invariant ---
	if err := s.validateLegPair(legA, legB); err != nil {
		return nil, err
	}
	if !shell.Amount.IsZero() && !shell.Amount.Equal(legA.Amount) {
		return nil, fmt.Errorf("%w: shell amount %s does not match leg amount %s", apperrors.ErrValidation, shell.Amount.String(), legA.Amount.String())
	}

	// --- Leg accounts must exist and carry the leg currency ---
	accountIDs := []string{legA.AccountID, legB.AccountID}
	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for transaction creation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch leg accounts: %w", err)
	}
	for _, leg := range []domain.EntryInput{legA, legB} {
		acc, found := accountsMap[leg.AccountID]
		if !found {
			return nil, fmt.Errorf("%w: id %s", ErrLedgerAccount, leg.AccountID)
		}
		if acc.Currency != leg.Currency {
			return nil, fmt.Errorf("%w: account %s is %s, leg is %s", ErrAccountCurrency, leg.AccountID, acc.Currency, leg.Currency)
		}
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:        uuid.NewString(),
		LogicalTransactionID: shell.LogicalTransactionID,
		Version:              shell.Version,
		MerchantID:           shell.MerchantID,
		Status:               shell.Status,
		Amount:               legA.Amount,
		Currency:             legA.Currency,
		Metadata:             shell.Metadata,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if txn.Metadata == nil {
		txn.Metadata = domain.Metadata{}
	}

	entries := make([]domain.Entry, 2)
	for i, leg := range []domain.EntryInput{legA, legB} {
		effectiveDate := leg.EffectiveDate
		if effectiveDate.IsZero() {
			effectiveDate = now
		}
		metadata := leg.Metadata
		if metadata == nil {
			metadata = domain.Metadata{}
		}
		entries[i] = domain.Entry{
			EntryID:       uuid.NewString(),
			AccountID:     leg.AccountID,
			TransactionID: txn.TransactionID,
			EntryType:     leg.EntryType,
			Amount:        leg.Amount,
			Currency:      leg.Currency,
			Status:        leg.Status,
			EffectiveDate: effectiveDate,
			Metadata:      metadata,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
	}

	// --- Atomic persistence ---
	ownTx := tx == nil
	if ownTx {
		tx, err = s.ledgerRepo.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer s.ledgerRepo.Rollback(ctx, tx) // no-op after a successful commit
	}

	if err := s.ledgerRepo.SaveTransactionWithEntries(ctx, tx, txn, entries); err != nil {
		logger.Error("Failed to save transaction with entries", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
	}

	if ownTx {
		if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction %s: %w", txn.TransactionID, err)
		}
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("logical_transaction_id", txn.LogicalTransactionID),
		slog.Int("version", txn.Version),
		slog.String("status", string(txn.Status)),
	)
	return &domain.TransactionWithEntries{Transaction: txn, Entries: entries}, nil
}

// GetTransactionWithEntries retrieves a transaction together with its entries.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) GetTransactionWithEntries(ctx context.Context, transactionID string) (*domain.TransactionWithEntries, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	entries, err := s.ledgerRepo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve entries for transaction %s: %w", transactionID, err)
	}

	return &domain.TransactionWithEntries{Transaction: *txn, Entries: entries}, nil
}

// ListTransactionsByLogicalID retrieves every version of a logical transaction.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ListTransactionsByLogicalID(ctx context.Context, logicalTransactionID string) ([]domain.Transaction, error) {
	txns, err := s.ledgerRepo.ListTransactionsByLogicalID(ctx, logicalTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for logical id %s: %w", logicalTransactionID, err)
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("%w: no transactions under logical id %s", apperrors.ErrNotFound, logicalTransactionID)
	}
	return txns, nil
}
