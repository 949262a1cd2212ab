package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/dto"
	"github.com/reconbooks/recon_backend/internal/middleware"
)

type stagingEntryService struct {
	stagingRepo portsrepo.StagingEntryRepositoryFacade
	accountRepo portsrepo.AccountReader
	txManager   portsrepo.TransactionManager
	taskSvc     portssvc.TaskSvcFacade
}

// NewStagingEntryService creates a new StagingEntryService.
func NewStagingEntryService(
	stagingRepo portsrepo.StagingEntryRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	txManager portsrepo.TransactionManager,
	taskSvc portssvc.TaskSvcFacade,
) portssvc.StagingEntrySvcFacade {
	return &stagingEntryService{
		stagingRepo: stagingRepo,
		accountRepo: accountRepo,
		txManager:   txManager,
		taskSvc:     taskSvc,
	}
}

// Ensure stagingEntryService implements the portssvc.StagingEntrySvcFacade interface
var _ portssvc.StagingEntrySvcFacade = (*stagingEntryService)(nil)

// CreateStagingEntry ingests an external movement and enqueues its recon task.
// Both rows commit in one database transaction so a persisted staging entry
// always has a task driving it. Implements portssvc.StagingEntrySvcFacade.
func (s *stagingEntryService) CreateStagingEntry(ctx context.Context, req dto.CreateStagingEntryRequest) (*domain.StagingEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.EntryType.Valid() {
		return nil, fmt.Errorf("%w: unrecognized entry type %q", apperrors.ErrValidation, req.EntryType)
	}
	if !req.ProcessingMode.Valid() {
		return nil, fmt.Errorf("%w: unrecognized processing mode %q", apperrors.ErrValidation, req.ProcessingMode)
	}
	if req.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, req.Amount.String())
	}
	if req.ProcessingMode == domain.ModeConfirmation && req.OrderID == "" {
		return nil, fmt.Errorf("%w: confirmation entries require an order id", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, req.AccountID)
		}
		return nil, fmt.Errorf("failed to verify account %s: %w", req.AccountID, err)
	}
	currency := strings.ToUpper(req.Currency)
	if account.Currency != currency {
		return nil, fmt.Errorf("%w: account %s is %s, staging entry is %s", apperrors.ErrValidation, req.AccountID, account.Currency, currency)
	}

	now := time.Now().UTC()
	effectiveDate := now
	if req.EffectiveDate != nil {
		effectiveDate = req.EffectiveDate.UTC()
	}
	metadata := domain.Metadata{}
	if req.OrderID != "" {
		metadata[domain.MetaKeyOrderID] = req.OrderID
	}

	entry := domain.StagingEntry{
		StagingEntryID: uuid.NewString(),
		AccountID:      req.AccountID,
		EntryType:      req.EntryType,
		Amount:         req.Amount,
		Currency:       currency,
		Status:         domain.StagingPending,
		ProcessingMode: req.ProcessingMode,
		EffectiveDate:  effectiveDate,
		Metadata:       metadata,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin ingestion transaction: %w", err)
	}
	defer s.txManager.Rollback(ctx, tx)

	if err := s.stagingRepo.SaveStagingEntry(ctx, tx, entry); err != nil {
		logger.Error("Failed to save staging entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save staging entry: %w", err)
	}

	task, err := s.taskSvc.CreateTask(ctx, tx, domain.TaskTypeReconcileStagingEntry, domain.ReconTaskPayload{StagingEntryID: entry.StagingEntryID})
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue recon task: %w", err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit ingestion: %w", err)
	}

	logger.Info("Staging entry ingested",
		slog.String("staging_entry_id", entry.StagingEntryID),
		slog.String("processing_mode", string(entry.ProcessingMode)),
		slog.String("task_id", task.TaskID),
	)
	return &entry, nil
}

// GetStagingEntryByID retrieves a staging entry.
// Implements portssvc.StagingEntrySvcFacade.
func (s *stagingEntryService) GetStagingEntryByID(ctx context.Context, stagingEntryID string) (*domain.StagingEntry, error) {
	entry, err := s.stagingRepo.FindStagingEntryByID(ctx, stagingEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find staging entry %s: %w", stagingEntryID, err)
	}
	return entry, nil
}

// ListStagingEntriesByStatus retrieves a page of staging entries in the given
// status. Implements portssvc.StagingEntrySvcFacade.
func (s *stagingEntryService) ListStagingEntriesByStatus(ctx context.Context, status domain.StagingEntryStatus, limit int, offset int) ([]domain.StagingEntry, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unrecognized staging entry status %q", apperrors.ErrValidation, status)
	}
	entries, err := s.stagingRepo.ListStagingEntriesByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list staging entries: %w", err)
	}
	return entries, nil
}
