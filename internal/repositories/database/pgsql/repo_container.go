package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider creates all pgx-backed repositories sharing one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		MerchantRepo:     newPgxMerchantRepository(pool),
		AccountRepo:      newPgxAccountRepository(pool),
		LedgerRepo:       newPgxLedgerRepository(pool),
		StagingEntryRepo: newPgxStagingEntryRepository(pool),
		ReconRuleRepo:    newPgxReconRuleRepository(pool),
		TaskRepo:         newPgxTaskRepository(pool),
		TxManager:        &BaseRepository{Pool: pool},
	}
}
