package services_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
)

// fakeTx is a no-op pgx.Tx handed out by mock Begin calls so services can
// thread a non-nil transaction through repository mocks.
type fakeTx struct{}

func (fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }
func (fakeTx) Commit(ctx context.Context) error          { return nil }
func (fakeTx) Rollback(ctx context.Context) error        { return nil }
func (fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (fakeTx) Conn() *pgx.Conn                                               { return nil }

// --- Mock MerchantRepository ---
type MockMerchantRepository struct {
	mock.Mock
}

func (m *MockMerchantRepository) SaveMerchant(ctx context.Context, merchant domain.Merchant) error {
	args := m.Called(ctx, merchant)
	return args.Error(0)
}

func (m *MockMerchantRepository) FindMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Merchant), args.Error(1)
}

func (m *MockMerchantRepository) ListMerchants(ctx context.Context, limit int, offset int) ([]domain.Merchant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Merchant), args.Error(1)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByMerchant(ctx context.Context, merchantID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, merchantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockLedgerRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactionsByLogicalID(ctx context.Context, logicalTransactionID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, logicalTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.Entry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockLedgerRepository) FindExpectedEntryCandidates(ctx context.Context, accountID string, orderID string) ([]domain.EntryWithTransaction, error) {
	args := m.Called(ctx, accountID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntryWithTransaction), args.Error(1)
}

func (m *MockLedgerRepository) GetBalanceSums(ctx context.Context, accountID string) (*domain.BalanceSums, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSums), args.Error(1)
}

func (m *MockLedgerRepository) GetBalanceSumsBatch(ctx context.Context, accountIDs []string) (map[string]domain.BalanceSums, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.BalanceSums), args.Error(1)
}

func (m *MockLedgerRepository) SaveTransactionWithEntries(ctx context.Context, tx pgx.Tx, txn domain.Transaction, entries []domain.Entry) error {
	args := m.Called(ctx, tx, txn, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) ArchiveTransactionWithEntries(ctx context.Context, tx pgx.Tx, transactionID string, discardedAt time.Time) error {
	args := m.Called(ctx, tx, transactionID, discardedAt)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, updatedAt time.Time) error {
	args := m.Called(ctx, transactionID, status, updatedAt)
	return args.Error(0)
}

// --- Mock StagingEntryRepository ---
type MockStagingEntryRepository struct {
	mock.Mock
}

func (m *MockStagingEntryRepository) SaveStagingEntry(ctx context.Context, tx pgx.Tx, entry domain.StagingEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockStagingEntryRepository) UpdateStagingEntryOutcome(ctx context.Context, tx pgx.Tx, stagingEntryID string, status domain.StagingEntryStatus, metadata domain.Metadata, discardedAt *time.Time, updatedAt time.Time) error {
	args := m.Called(ctx, tx, stagingEntryID, status, metadata, discardedAt, updatedAt)
	return args.Error(0)
}

func (m *MockStagingEntryRepository) FindStagingEntryByID(ctx context.Context, stagingEntryID string) (*domain.StagingEntry, error) {
	args := m.Called(ctx, stagingEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StagingEntry), args.Error(1)
}

func (m *MockStagingEntryRepository) ListStagingEntriesByStatus(ctx context.Context, status domain.StagingEntryStatus, limit int, offset int) ([]domain.StagingEntry, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StagingEntry), args.Error(1)
}

// --- Mock ReconRuleRepository ---
type MockReconRuleRepository struct {
	mock.Mock
}

func (m *MockReconRuleRepository) FindRuleBySourceAccount(ctx context.Context, accountID string) (*domain.ReconRule, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconRule), args.Error(1)
}

func (m *MockReconRuleRepository) FindRuleByConfirmationAccount(ctx context.Context, accountID string) (*domain.ReconRule, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconRule), args.Error(1)
}

func (m *MockReconRuleRepository) ListReconRulesByMerchant(ctx context.Context, merchantID string) ([]domain.ReconRule, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconRule), args.Error(1)
}

func (m *MockReconRuleRepository) SaveReconRule(ctx context.Context, rule domain.ReconRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

// --- Mock TaskRepository ---
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.ProcessTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessTask), args.Error(1)
}

func (m *MockTaskRepository) ListTasksByStatus(ctx context.Context, taskType domain.TaskType, status domain.TaskStatus, limit int, offset int) ([]domain.ProcessTask, error) {
	args := m.Called(ctx, taskType, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProcessTask), args.Error(1)
}

func (m *MockTaskRepository) SaveTask(ctx context.Context, tx pgx.Tx, taskID string, taskType domain.TaskType, payload json.RawMessage, now time.Time) error {
	args := m.Called(ctx, tx, taskID, taskType, payload, now)
	return args.Error(0)
}

func (m *MockTaskRepository) ClaimNextTask(ctx context.Context, taskType domain.TaskType, now time.Time) (*domain.ProcessTask, error) {
	args := m.Called(ctx, taskType, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessTask), args.Error(1)
}

func (m *MockTaskRepository) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus, opts portsrepo.UpdateTaskOptions, now time.Time) error {
	args := m.Called(ctx, taskID, status, opts, now)
	return args.Error(0)
}

// --- Mock LedgerService (used by recon engine tests) ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateTransaction(ctx context.Context, tx pgx.Tx, shell domain.TransactionShell, legA domain.EntryInput, legB domain.EntryInput) (*domain.TransactionWithEntries, error) {
	args := m.Called(ctx, tx, shell, legA, legB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionWithEntries), args.Error(1)
}

func (m *MockLedgerService) GetTransactionWithEntries(ctx context.Context, transactionID string) (*domain.TransactionWithEntries, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionWithEntries), args.Error(1)
}

func (m *MockLedgerService) ListTransactionsByLogicalID(ctx context.Context, logicalTransactionID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, logicalTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
