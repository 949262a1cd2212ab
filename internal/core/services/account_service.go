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

type accountService struct {
	accountRepo  portsrepo.AccountRepositoryFacade
	merchantRepo portsrepo.MerchantReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, merchantRepo portsrepo.MerchantReader) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  accountRepo,
		merchantRepo: merchantRepo,
	}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a new account under the given merchant.
// Implements portssvc.AccountSvcFacade.
func (s *accountService) CreateAccount(ctx context.Context, merchantID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: unrecognized account type %q", apperrors.ErrValidation, req.AccountType)
	}

	if _, err := s.merchantRepo.FindMerchantByID(ctx, merchantID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: merchant %s", apperrors.ErrNotFound, merchantID)
		}
		return nil, fmt.Errorf("failed to verify merchant %s: %w", merchantID, err)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		MerchantID:  merchantID,
		Name:        req.Name,
		AccountType: req.AccountType,
		Currency:    strings.ToUpper(req.Currency),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("merchant_id", merchantID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created",
		slog.String("account_id", account.AccountID),
		slog.String("merchant_id", merchantID),
		slog.String("account_type", string(account.AccountType)),
	)
	return &account, nil
}

// GetAccountByID retrieves an account. Implements portssvc.AccountSvcFacade.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts keyed by id.
// Implements portssvc.AccountSvcFacade.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	return accounts, nil
}

// ListAccounts retrieves a page of a merchant's accounts.
// Implements portssvc.AccountSvcFacade.
func (s *accountService) ListAccounts(ctx context.Context, merchantID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByMerchant(ctx, merchantID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for merchant %s: %w", merchantID, err)
	}
	return accounts, nil
}
