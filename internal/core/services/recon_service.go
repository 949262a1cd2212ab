package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/middleware"
)

// reconService drives reconciliation of staging entries against the ledger.
// All ledger writes go through the ledger service so the balance invariant is
// enforced on every path.
type reconService struct {
	stagingRepo portsrepo.StagingEntryRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryWithTx
	ruleRepo    portsrepo.ReconRuleReader
	ledgerSvc   portssvc.LedgerSvcFacade
}

// NewReconService creates a new ReconService.
func NewReconService(
	stagingRepo portsrepo.StagingEntryRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryWithTx,
	ruleRepo portsrepo.ReconRuleReader,
	ledgerSvc portssvc.LedgerSvcFacade,
) portssvc.ReconSvcFacade {
	return &reconService{
		stagingRepo: stagingRepo,
		ledgerRepo:  ledgerRepo,
		ruleRepo:    ruleRepo,
		ledgerSvc:   ledgerSvc,
	}
}

// Ensure reconService implements the portssvc.ReconSvcFacade interface
var _ portssvc.ReconSvcFacade = (*reconService)(nil)

// ProcessStagingEntry runs the state machine selected by the staging entry's
// processing mode. Implements portssvc.ReconSvcFacade.
//
// Every failure leaves the staging entry in NEEDS_MANUAL_REVIEW with
// error/error_type metadata. The specific branches write their own review
// outcome; the fallback here only covers errors that reached no branch.
func (s *reconService) ProcessStagingEntry(ctx context.Context, stagingEntryID string) (*domain.ReconResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("staging_entry_id", stagingEntryID))
	ctx = middleware.WithLogger(ctx, logger)

	entry, err := s.stagingRepo.FindStagingEntryByID(ctx, stagingEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load staging entry %s: %w", stagingEntryID, err)
	}
	if entry.Status != domain.StagingPending {
		// Already terminal. Reprocessing must not double-post.
		return nil, fmt.Errorf("%w: staging entry %s is already %s", apperrors.ErrConflict, stagingEntryID, entry.Status)
	}

	var result *domain.ReconResult
	reviewed := false

	switch entry.ProcessingMode {
	case domain.ModeConfirmation:
		result, err = s.processConfirmation(ctx, entry, &reviewed)
	case domain.ModeTransaction:
		result, err = s.processTransaction(ctx, entry, &reviewed)
	default:
		err = fmt.Errorf("%w: unrecognized processing mode %q", apperrors.ErrValidation, entry.ProcessingMode)
	}

	if err != nil {
		if !reviewed {
			if reviewErr := s.markManualReview(ctx, entry.StagingEntryID, err); reviewErr != nil {
				logger.Error("Failed to mark staging entry for manual review", slog.String("error", reviewErr.Error()))
			}
		}
		logger.Warn("Staging entry not reconciled", slog.String("error", err.Error()), slog.String("error_type", errorTypeName(err)))
		return &domain.ReconResult{Outcome: outcomeForError(err), StagingEntryID: entry.StagingEntryID}, err
	}

	logger.Info("Staging entry reconciled",
		slog.String("outcome", string(result.Outcome)),
		slog.String("transaction_id", result.TransactionID),
	)
	return result, nil
}

// processConfirmation matches the staging entry against a live expected entry
// and evolves the owning transaction to a fully posted version.
func (s *reconService) processConfirmation(ctx context.Context, entry *domain.StagingEntry, reviewed *bool) (*domain.ReconResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// The account must be the confirmation side of a recon rule; without one
	// there is nothing this entry could be confirming.
	if _, err := s.ruleRepo.FindRuleByConfirmationAccount(ctx, entry.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			orderID, _ := entry.Metadata.OrderID()
			matchErr := &NoMatchFoundError{AccountID: entry.AccountID, OrderID: orderID}
			*reviewed = true
			if mErr := s.markManualReview(ctx, entry.StagingEntryID, fmt.Errorf("account is not the confirmation side of any recon rule: %w", matchErr)); mErr != nil {
				return nil, mErr
			}
			return nil, matchErr
		}
		return nil, fmt.Errorf("failed to look up recon rule for confirmation account %s: %w", entry.AccountID, err)
	}

	orderID, ok := entry.Metadata.OrderID()
	if !ok {
		err := &NoMatchFoundError{AccountID: entry.AccountID, OrderID: ""}
		*reviewed = true
		if mErr := s.markManualReview(ctx, entry.StagingEntryID, fmt.Errorf("confirmation entry carries no order id: %w", err)); mErr != nil {
			return nil, mErr
		}
		return nil, err
	}

	candidates, err := s.ledgerRepo.FindExpectedEntryCandidates(ctx, entry.AccountID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expected entry candidates: %w", err)
	}

	switch {
	case len(candidates) == 0:
		matchErr := &NoMatchFoundError{AccountID: entry.AccountID, OrderID: orderID}
		*reviewed = true
		if mErr := s.markManualReview(ctx, entry.StagingEntryID, matchErr); mErr != nil {
			return nil, mErr
		}
		return nil, matchErr
	case len(candidates) > 1:
		matchErr := &AmbiguousMatchError{AccountID: entry.AccountID, OrderID: orderID, Candidates: len(candidates)}
		*reviewed = true
		if mErr := s.markManualReview(ctx, entry.StagingEntryID, matchErr); mErr != nil {
			return nil, mErr
		}
		return nil, matchErr
	}

	candidate := candidates[0]
	if reason := matchReason(entry, candidate.Entry); reason != "" {
		matchErr := &MismatchError{EntryID: candidate.Entry.EntryID, Reason: reason}
		*reviewed = true
		// The transaction itself is now known bad; take it out of the live set.
		now := time.Now().UTC()
		if uErr := s.ledgerRepo.UpdateTransactionStatus(ctx, candidate.Transaction.TransactionID, domain.TransactionMismatch, now); uErr != nil {
			logger.Error("Failed to mark transaction as mismatched", slog.String("error", uErr.Error()), slog.String("transaction_id", candidate.Transaction.TransactionID))
		}
		if mErr := s.markManualReview(ctx, entry.StagingEntryID, matchErr); mErr != nil {
			return nil, mErr
		}
		return nil, matchErr
	}

	evolved, err := s.fulfill(ctx, entry, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to fulfill expected entry %s: %w", candidate.Entry.EntryID, err)
	}

	return &domain.ReconResult{
		Outcome:              domain.OutcomeFulfilled,
		StagingEntryID:       entry.StagingEntryID,
		TransactionID:        candidate.Transaction.TransactionID,
		EvolvedTransactionID: evolved.Transaction.TransactionID,
	}, nil
}

// matchReason compares the staging entry against the candidate expected entry
// and returns a human-readable reason when they disagree, or "" on a match.
// The entry types must be equal: the confirmation reports the same movement the
// expectation predicted, on the same account.
func matchReason(staging *domain.StagingEntry, expected domain.Entry) string {
	if !staging.Amount.Equal(expected.Amount) {
		return fmt.Sprintf("amount %s does not equal expected %s", staging.Amount.String(), expected.Amount.String())
	}
	if staging.Currency != expected.Currency {
		return fmt.Sprintf("currency %s does not equal expected %s", staging.Currency, expected.Currency)
	}
	if staging.EntryType != expected.EntryType {
		return fmt.Sprintf("entry type %s does not equal expected %s", staging.EntryType, expected.EntryType)
	}
	return ""
}

// fulfill archives the matched transaction and creates the next version with
// both legs POSTED, then marks the staging entry PROCESSED. All three writes
// commit together.
func (s *reconService) fulfill(ctx context.Context, entry *domain.StagingEntry, candidate domain.EntryWithTransaction) (*domain.TransactionWithEntries, error) {
	priorTxn := candidate.Transaction

	priorEntries, err := s.ledgerRepo.FindEntriesByTransactionID(ctx, priorTxn.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries of transaction %s: %w", priorTxn.TransactionID, err)
	}
	var counterpart *domain.Entry
	for i := range priorEntries {
		if priorEntries[i].EntryID != candidate.Entry.EntryID {
			counterpart = &priorEntries[i]
			break
		}
	}
	if counterpart == nil {
		return nil, fmt.Errorf("transaction %s has no counterpart leg for entry %s", priorTxn.TransactionID, candidate.Entry.EntryID)
	}

	now := time.Now().UTC()

	fulfilledLeg := domain.EntryInput{
		AccountID:     candidate.Entry.AccountID,
		EntryType:     candidate.Entry.EntryType,
		Amount:        candidate.Entry.Amount,
		Currency:      candidate.Entry.Currency,
		Status:        domain.EntryPosted,
		EffectiveDate: entry.EffectiveDate,
		Metadata:      candidate.Entry.Metadata.Clone(),
	}
	fulfilledLeg.Metadata[domain.MetaKeyDerivedFromEntryID] = candidate.Entry.EntryID
	fulfilledLeg.Metadata[domain.MetaKeyStagingEntryID] = entry.StagingEntryID

	carriedLeg := domain.EntryInput{
		AccountID:     counterpart.AccountID,
		EntryType:     counterpart.EntryType,
		Amount:        counterpart.Amount,
		Currency:      counterpart.Currency,
		Status:        domain.EntryPosted,
		EffectiveDate: entry.EffectiveDate,
		Metadata:      counterpart.Metadata.Clone(),
	}
	carriedLeg.Metadata[domain.MetaKeyDerivedFromEntryID] = counterpart.EntryID

	shellMeta := priorTxn.Metadata.Clone()
	shellMeta[domain.MetaKeyEvolvedFromID] = priorTxn.TransactionID
	shell := domain.TransactionShell{
		LogicalTransactionID: priorTxn.LogicalTransactionID,
		Version:              priorTxn.Version + 1,
		MerchantID:           priorTxn.MerchantID,
		Status:               domain.TransactionPosted,
		Amount:               priorTxn.Amount,
		Currency:             priorTxn.Currency,
		Metadata:             shellMeta,
	}

	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin fulfillment transaction: %w", err)
	}
	defer s.ledgerRepo.Rollback(ctx, tx)

	// Archive first so the partial unique index accepts the new live version.
	if err := s.ledgerRepo.ArchiveTransactionWithEntries(ctx, tx, priorTxn.TransactionID, now); err != nil {
		return nil, fmt.Errorf("failed to archive transaction %s: %w", priorTxn.TransactionID, err)
	}

	evolved, err := s.ledgerSvc.CreateTransaction(ctx, tx, shell, fulfilledLeg, carriedLeg)
	if err != nil {
		return nil, fmt.Errorf("failed to create evolved transaction: %w", err)
	}

	stagingMeta := domain.Metadata{
		domain.MetaKeyTransactionID:  evolved.Transaction.TransactionID,
		domain.MetaKeyMatchedEntryID: candidate.Entry.EntryID,
	}
	if err := s.stagingRepo.UpdateStagingEntryOutcome(ctx, tx, entry.StagingEntryID, domain.StagingProcessed, stagingMeta, &now, now); err != nil {
		return nil, fmt.Errorf("failed to mark staging entry processed: %w", err)
	}

	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit fulfillment: %w", err)
	}
	return evolved, nil
}

// processTransaction records the staging entry as a posted leg and generates
// the expected contra leg from the account's recon rule.
func (s *reconService) processTransaction(ctx context.Context, entry *domain.StagingEntry, reviewed *bool) (*domain.ReconResult, error) {
	rule, err := s.ruleRepo.FindRuleBySourceAccount(ctx, entry.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			ruleErr := &NoReconRuleFoundError{AccountID: entry.AccountID}
			*reviewed = true
			if mErr := s.markManualReview(ctx, entry.StagingEntryID, ruleErr); mErr != nil {
				return nil, mErr
			}
			return nil, ruleErr
		}
		return nil, fmt.Errorf("failed to look up recon rule for account %s: %w", entry.AccountID, err)
	}

	now := time.Now().UTC()

	postedLeg := domain.EntryInput{
		AccountID:     entry.AccountID,
		EntryType:     entry.EntryType,
		Amount:        entry.Amount,
		Currency:      entry.Currency,
		Status:        domain.EntryPosted,
		EffectiveDate: entry.EffectiveDate,
		Metadata:      entry.Metadata.Clone(),
	}
	postedLeg.Metadata[domain.MetaKeyStagingEntryID] = entry.StagingEntryID

	expectedLeg := domain.EntryInput{
		AccountID:     rule.AccountTwoID,
		EntryType:     entry.EntryType.Opposite(),
		Amount:        entry.Amount,
		Currency:      entry.Currency,
		Status:        domain.EntryExpected,
		EffectiveDate: entry.EffectiveDate,
		Metadata:      entry.Metadata.Clone(),
	}

	// The order id, when present, keys the logical transaction so a later
	// confirmation correlates to it; otherwise the staging entry id does.
	logicalID := entry.StagingEntryID
	if orderID, ok := entry.Metadata.OrderID(); ok {
		logicalID = orderID
	}

	shell := domain.TransactionShell{
		LogicalTransactionID: logicalID,
		Version:              1,
		MerchantID:           rule.MerchantID,
		Status:               domain.TransactionExpected,
		Amount:               entry.Amount,
		Currency:             entry.Currency,
		Metadata:             entry.Metadata.Clone(),
	}
	shell.Metadata[domain.MetaKeyStagingEntryID] = entry.StagingEntryID

	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.ledgerRepo.Rollback(ctx, tx)

	created, err := s.ledgerSvc.CreateTransaction(ctx, tx, shell, postedLeg, expectedLeg)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction from staging entry: %w", err)
	}

	stagingMeta := domain.Metadata{domain.MetaKeyTransactionID: created.Transaction.TransactionID}
	if err := s.stagingRepo.UpdateStagingEntryOutcome(ctx, tx, entry.StagingEntryID, domain.StagingProcessed, stagingMeta, &now, now); err != nil {
		return nil, fmt.Errorf("failed to mark staging entry processed: %w", err)
	}

	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction creation: %w", err)
	}

	return &domain.ReconResult{
		Outcome:        domain.OutcomeCreated,
		StagingEntryID: entry.StagingEntryID,
		TransactionID:  created.Transaction.TransactionID,
	}, nil
}

// markManualReview transitions the staging entry to NEEDS_MANUAL_REVIEW with
// the error recorded in its metadata. The entry is kept (not discarded) so an
// operator can inspect it.
func (s *reconService) markManualReview(ctx context.Context, stagingEntryID string, cause error) error {
	now := time.Now().UTC()
	meta := domain.Metadata{
		domain.MetaKeyError:     cause.Error(),
		domain.MetaKeyErrorType: errorTypeName(cause),
	}
	if err := s.stagingRepo.UpdateStagingEntryOutcome(ctx, nil, stagingEntryID, domain.StagingNeedsManualReview, meta, nil, now); err != nil {
		return fmt.Errorf("failed to update staging entry %s for review: %w", stagingEntryID, err)
	}
	return nil
}

// outcomeForError maps a recon failure to its reportable outcome.
func outcomeForError(err error) domain.ReconOutcome {
	var noMatch *NoMatchFoundError
	var ambiguous *AmbiguousMatchError
	var mismatch *MismatchError
	var noRule *NoReconRuleFoundError
	switch {
	case errors.As(err, &noMatch):
		return domain.OutcomeNoMatch
	case errors.As(err, &ambiguous):
		return domain.OutcomeAmbiguous
	case errors.As(err, &mismatch):
		return domain.OutcomeMismatch
	case errors.As(err, &noRule):
		return domain.OutcomeNoRule
	default:
		return domain.OutcomeFailed
	}
}
