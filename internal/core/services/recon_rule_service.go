package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/dto"
	"github.com/reconbooks/recon_backend/internal/middleware"
)

type reconRuleService struct {
	ruleRepo    portsrepo.ReconRuleRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewReconRuleService creates a new ReconRuleService.
func NewReconRuleService(ruleRepo portsrepo.ReconRuleRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.ReconRuleSvcFacade {
	return &reconRuleService{
		ruleRepo:    ruleRepo,
		accountRepo: accountRepo,
	}
}

// Ensure reconRuleService implements the portssvc.ReconRuleSvcFacade interface
var _ portssvc.ReconRuleSvcFacade = (*reconRuleService)(nil)

// CreateReconRule creates a directed account pairing for the merchant.
// Implements portssvc.ReconRuleSvcFacade.
func (s *reconRuleService) CreateReconRule(ctx context.Context, merchantID string, req dto.CreateReconRuleRequest) (*domain.ReconRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.AccountOneID == req.AccountTwoID {
		return nil, fmt.Errorf("%w: a recon rule must pair two distinct accounts", apperrors.ErrValidation)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{req.AccountOneID, req.AccountTwoID})
	if err != nil {
		return nil, fmt.Errorf("failed to verify rule accounts: %w", err)
	}
	for _, accountID := range []string{req.AccountOneID, req.AccountTwoID} {
		acc, found := accounts[accountID]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		if acc.MerchantID != merchantID {
			return nil, fmt.Errorf("%w: account %s does not belong to merchant %s", apperrors.ErrValidation, accountID, merchantID)
		}
	}

	// One rule per source account keeps TRANSACTION-mode routing unambiguous.
	if existing, err := s.ruleRepo.FindRuleBySourceAccount(ctx, req.AccountOneID); err == nil {
		return nil, fmt.Errorf("%w: account %s is already the source of rule %s", apperrors.ErrDuplicate, req.AccountOneID, existing.ReconRuleID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing rules for account %s: %w", req.AccountOneID, err)
	}

	now := time.Now().UTC()
	rule := domain.ReconRule{
		ReconRuleID:  uuid.NewString(),
		MerchantID:   merchantID,
		AccountOneID: req.AccountOneID,
		AccountTwoID: req.AccountTwoID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.ruleRepo.SaveReconRule(ctx, rule); err != nil {
		logger.Error("Failed to save recon rule", slog.String("error", err.Error()), slog.String("merchant_id", merchantID))
		return nil, fmt.Errorf("failed to save recon rule: %w", err)
	}

	logger.Info("Recon rule created",
		slog.String("recon_rule_id", rule.ReconRuleID),
		slog.String("account_one_id", rule.AccountOneID),
		slog.String("account_two_id", rule.AccountTwoID),
	)
	return &rule, nil
}

// ListReconRules retrieves a merchant's recon rules.
// Implements portssvc.ReconRuleSvcFacade.
func (s *reconRuleService) ListReconRules(ctx context.Context, merchantID string) ([]domain.ReconRule, error) {
	rules, err := s.ruleRepo.ListReconRulesByMerchant(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recon rules for merchant %s: %w", merchantID, err)
	}
	return rules, nil
}
