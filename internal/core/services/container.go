package services

import (
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
)

// NewServiceContainer wires all application services from the repository
// provider. Construction order follows the dependency graph: ledger before
// recon, task before staging ingestion.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	merchantSvc := NewMerchantService(repos.MerchantRepo)
	accountSvc := NewAccountService(repos.AccountRepo, repos.MerchantRepo)
	ledgerSvc := NewLedgerService(repos.LedgerRepo, repos.MerchantRepo, repos.AccountRepo)
	balanceSvc := NewBalanceService(repos.AccountRepo, repos.LedgerRepo)
	taskSvc := NewTaskService(repos.TaskRepo)
	stagingSvc := NewStagingEntryService(repos.StagingEntryRepo, repos.AccountRepo, repos.TxManager, taskSvc)
	reconRuleSvc := NewReconRuleService(repos.ReconRuleRepo, repos.AccountRepo)
	reconSvc := NewReconService(repos.StagingEntryRepo, repos.LedgerRepo, repos.ReconRuleRepo, ledgerSvc)

	return &portssvc.ServiceContainer{
		Merchant:     merchantSvc,
		Account:      accountSvc,
		Ledger:       ledgerSvc,
		Balance:      balanceSvc,
		StagingEntry: stagingSvc,
		ReconRule:    reconRuleSvc,
		Recon:        reconSvc,
		Task:         taskSvc,
	}
}
