package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// TaskSvcFacade defines the durable polling task queue operations.
type TaskSvcFacade interface {
	// CreateTask enqueues a new PENDING task with attempts=0. payload must be
	// JSON-marshalable. When tx is non-nil the insert joins the caller's
	// database transaction.
	CreateTask(ctx context.Context, tx pgx.Tx, taskType domain.TaskType, payload any) (*domain.ProcessTask, error)

	// ClaimNextTask claims the oldest PENDING/RETRY task of the given type,
	// transitioning it to PROCESSING and incrementing attempts in one
	// conditional update. Returns apperrors.ErrNotFound when the queue is empty.
	ClaimNextTask(ctx context.Context, taskType domain.TaskType) (*domain.ProcessTask, error)

	// MarkCompleted transitions a task to COMPLETED, clearing last_error and
	// stamping completed_at.
	MarkCompleted(ctx context.Context, taskID string) error

	// MarkFailed transitions a task to FAILED, recording the error message and
	// stamping completed_at. FAILED is terminal unless re-enqueued.
	MarkFailed(ctx context.Context, taskID string, errMsg string) error

	// RequeueTask transitions a FAILED task back to RETRY so the next poll
	// picks it up. This is the external re-enqueue hook; there is no automatic
	// backoff.
	RequeueTask(ctx context.Context, taskID string) error

	GetTask(ctx context.Context, taskID string) (*domain.ProcessTask, error)
}
