package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	MerchantRepo     MerchantRepositoryFacade
	AccountRepo      AccountRepositoryFacade
	LedgerRepo       LedgerRepositoryWithTx
	StagingEntryRepo StagingEntryRepositoryFacade
	ReconRuleRepo    ReconRuleRepositoryFacade
	TaskRepo         TaskRepositoryFacade

	// TxManager opens database transactions spanning multiple repositories
	// (e.g. staging entry + task created atomically during ingestion).
	TxManager TransactionManager
}
