package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/middleware"
)

type taskService struct {
	taskRepo portsrepo.TaskRepositoryFacade
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo portsrepo.TaskRepositoryFacade) portssvc.TaskSvcFacade {
	return &taskService{taskRepo: taskRepo}
}

// Ensure taskService implements the portssvc.TaskSvcFacade interface
var _ portssvc.TaskSvcFacade = (*taskService)(nil)

// CreateTask enqueues a new PENDING task. Implements portssvc.TaskSvcFacade.
func (s *taskService) CreateTask(ctx context.Context, tx pgx.Tx, taskType domain.TaskType, payload any) (*domain.ProcessTask, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: task payload is not JSON-marshalable: %v", apperrors.ErrValidation, err)
	}

	now := time.Now().UTC()
	taskID := uuid.NewString()
	if err := s.taskRepo.SaveTask(ctx, tx, taskID, taskType, raw, now); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	return &domain.ProcessTask{
		TaskID:   taskID,
		TaskType: taskType,
		Payload:  raw,
		Status:   domain.TaskPending,
		Attempts: 0,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}, nil
}

// ClaimNextTask claims the oldest runnable task of the given type.
// Implements portssvc.TaskSvcFacade.
func (s *taskService) ClaimNextTask(ctx context.Context, taskType domain.TaskType) (*domain.ProcessTask, error) {
	task, err := s.taskRepo.ClaimNextTask(ctx, taskType, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	middleware.GetLoggerFromCtx(ctx).Debug("Task claimed",
		slog.String("task_id", task.TaskID),
		slog.Int("attempts", task.Attempts),
	)
	return task, nil
}

// MarkCompleted finalizes a task successfully. Implements portssvc.TaskSvcFacade.
func (s *taskService) MarkCompleted(ctx context.Context, taskID string) error {
	now := time.Now().UTC()
	if err := s.taskRepo.UpdateTaskStatus(ctx, taskID, domain.TaskCompleted, portsrepo.UpdateTaskOptions{}, now); err != nil {
		return fmt.Errorf("failed to complete task %s: %w", taskID, err)
	}
	return nil
}

// MarkFailed finalizes a task with an error. Implements portssvc.TaskSvcFacade.
func (s *taskService) MarkFailed(ctx context.Context, taskID string, errMsg string) error {
	now := time.Now().UTC()
	opts := portsrepo.UpdateTaskOptions{ErrorMessage: &errMsg}
	if err := s.taskRepo.UpdateTaskStatus(ctx, taskID, domain.TaskFailed, opts, now); err != nil {
		return fmt.Errorf("failed to fail task %s: %w", taskID, err)
	}
	return nil
}

// RequeueTask moves a FAILED task back to RETRY. Implements portssvc.TaskSvcFacade.
func (s *taskService) RequeueTask(ctx context.Context, taskID string) error {
	task, err := s.taskRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to find task %s: %w", taskID, err)
	}
	if task.Status != domain.TaskFailed {
		return fmt.Errorf("%w: task %s is %s, only FAILED tasks can be re-enqueued", apperrors.ErrConflict, taskID, task.Status)
	}

	now := time.Now().UTC()
	if err := s.taskRepo.UpdateTaskStatus(ctx, taskID, domain.TaskRetry, portsrepo.UpdateTaskOptions{}, now); err != nil {
		return fmt.Errorf("failed to re-enqueue task %s: %w", taskID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Task re-enqueued", slog.String("task_id", taskID))
	return nil
}

// GetTask retrieves a task. Implements portssvc.TaskSvcFacade.
func (s *taskService) GetTask(ctx context.Context, taskID string) (*domain.ProcessTask, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task %s: %w", taskID, err)
	}
	return task, nil
}
