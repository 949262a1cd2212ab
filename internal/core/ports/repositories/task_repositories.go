package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// UpdateTaskOptions carries the optional side effects of a task status update.
type UpdateTaskOptions struct {
	// ErrorMessage sets last_error when non-nil; a COMPLETED transition clears it.
	ErrorMessage *string
	// IncrementAttempt bumps the attempts counter along with the transition.
	IncrementAttempt bool
}

// TaskReader defines read operations for process task data.
type TaskReader interface {
	FindTaskByID(ctx context.Context, taskID string) (*domain.ProcessTask, error)
	ListTasksByStatus(ctx context.Context, taskType domain.TaskType, status domain.TaskStatus, limit int, offset int) ([]domain.ProcessTask, error)
}

// TaskWriter defines write operations for process task data.
type TaskWriter interface {
	// SaveTask inserts a new task. When tx is non-nil the insert participates
	// in the caller's database transaction.
	SaveTask(ctx context.Context, tx pgx.Tx, taskID string, taskType domain.TaskType, payload json.RawMessage, now time.Time) error

	// ClaimNextTask atomically claims the oldest PENDING/RETRY task of the
	// given type: it transitions the row to PROCESSING, increments attempts and
	// sets processing_started_at in a single conditional update, so two workers
	// can never claim the same task. Returns apperrors.ErrNotFound when the
	// queue is empty.
	ClaimNextTask(ctx context.Context, taskType domain.TaskType, now time.Time) (*domain.ProcessTask, error)

	// UpdateTaskStatus transitions the task status, stamping
	// processing_started_at on PROCESSING and completed_at on COMPLETED/FAILED.
	UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus, opts UpdateTaskOptions, now time.Time) error
}

// TaskRepositoryFacade combines all process task repository interfaces.
type TaskRepositoryFacade interface {
	TaskReader
	TaskWriter
}
