package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portsrepo "github.com/reconbooks/recon_backend/internal/core/ports/repositories"
	"github.com/reconbooks/recon_backend/internal/models"
)

type PgxTaskRepository struct {
	BaseRepository
}

// newPgxTaskRepository creates a new repository for process task data.
func newPgxTaskRepository(pool *pgxpool.Pool) portsrepo.TaskRepositoryFacade {
	return &PgxTaskRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxTaskRepository implements portsrepo.TaskRepositoryFacade
var _ portsrepo.TaskRepositoryFacade = (*PgxTaskRepository)(nil)

func toDomainTask(m models.ProcessTask) domain.ProcessTask {
	return domain.ProcessTask{
		TaskID:              m.TaskID,
		TaskType:            domain.TaskType(m.TaskType),
		Payload:             m.Payload,
		Status:              domain.TaskStatus(m.Status),
		Attempts:            m.Attempts,
		LastError:           m.LastError,
		ProcessingStartedAt: m.ProcessingStartedAt,
		CompletedAt:         m.CompletedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

const taskColumns = `task_id, task_type, payload, status, attempts, last_error, processing_started_at, completed_at, created_at, last_updated_at`

func scanTask(row pgx.Row) (models.ProcessTask, error) {
	var m models.ProcessTask
	err := row.Scan(
		&m.TaskID,
		&m.TaskType,
		&m.Payload,
		&m.Status,
		&m.Attempts,
		&m.LastError,
		&m.ProcessingStartedAt,
		&m.CompletedAt,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveTask inserts a new PENDING task, inside tx when one is supplied.
func (r *PgxTaskRepository) SaveTask(ctx context.Context, tx pgx.Tx, taskID string, taskType domain.TaskType, payload json.RawMessage, now time.Time) error {
	query := `
		INSERT INTO process_tasks (task_id, task_type, payload, status, attempts, created_at, last_updated_at)
		VALUES ($1, $2, $3, 'PENDING', 0, $4, $4);
	`
	_, err := r.q(tx).Exec(ctx, query, taskID, string(taskType), payload, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: task %s already exists", apperrors.ErrDuplicate, taskID)
		}
		return fmt.Errorf("failed to save task %s: %w", taskID, err)
	}
	return nil
}

// ClaimNextTask atomically claims the oldest PENDING/RETRY task of the given
// type. The inner SELECT takes a row lock with SKIP LOCKED so concurrent
// workers never claim the same task and never block each other.
func (r *PgxTaskRepository) ClaimNextTask(ctx context.Context, taskType domain.TaskType, now time.Time) (*domain.ProcessTask, error) {
	query := `
		UPDATE process_tasks
		SET status = 'PROCESSING',
		    attempts = attempts + 1,
		    processing_started_at = $2,
		    last_updated_at = $2
		WHERE task_id = (
			SELECT task_id
			FROM process_tasks
			WHERE task_type = $1
			  AND status IN ('PENDING', 'RETRY')
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + taskColumns + `;
	`
	model, err := scanTask(r.Pool.QueryRow(ctx, query, string(taskType), now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to claim next %s task: %w", taskType, err)
	}

	task := toDomainTask(model)
	return &task, nil
}

// UpdateTaskStatus transitions the task status, stamping processing_started_at
// on PROCESSING and completed_at on terminal transitions.
func (r *PgxTaskRepository) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus, opts portsrepo.UpdateTaskOptions, now time.Time) error {
	query := `
		UPDATE process_tasks
		SET status = $2,
		    attempts = attempts + CASE WHEN $3 THEN 1 ELSE 0 END,
		    last_error = CASE WHEN $2 = 'COMPLETED' THEN NULL ELSE COALESCE($4, last_error) END,
		    processing_started_at = CASE WHEN $2 = 'PROCESSING' THEN $5 ELSE processing_started_at END,
		    completed_at = CASE WHEN $2 IN ('COMPLETED', 'FAILED') THEN $5 ELSE completed_at END,
		    last_updated_at = $5
		WHERE task_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, taskID, string(status), opts.IncrementAttempt, opts.ErrorMessage, now)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", taskID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s", apperrors.ErrNotFound, taskID)
	}
	return nil
}

// FindTaskByID retrieves a task by its ID.
func (r *PgxTaskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.ProcessTask, error) {
	query := `SELECT ` + taskColumns + ` FROM process_tasks WHERE task_id = $1;`

	model, err := scanTask(r.Pool.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task %s: %w", taskID, err)
	}

	task := toDomainTask(model)
	return &task, nil
}

// ListTasksByStatus retrieves a page of tasks of one type and status, oldest first.
func (r *PgxTaskRepository) ListTasksByStatus(ctx context.Context, taskType domain.TaskType, status domain.TaskStatus, limit int, offset int) ([]domain.ProcessTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM process_tasks
		WHERE task_type = $1 AND status = $2
		ORDER BY created_at
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, string(taskType), string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.ProcessTask, 0)
	for rows.Next() {
		model, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, toDomainTask(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating task rows: %w", err)
	}
	return tasks, nil
}
