// Package worker polls the process task queue and drives staging entries
// through the recon engine.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/metrics"
	"github.com/reconbooks/recon_backend/internal/middleware"
)

// BatchResult reports one bounded drain of the task queue.
type BatchResult struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Consumer claims reconciliation tasks and executes them one at a time.
// Multiple consumers can run against the same queue; the conditional claim
// update keeps them from stepping on each other.
type Consumer struct {
	taskSvc      portssvc.TaskSvcFacade
	reconSvc     portssvc.ReconSvcFacade
	metrics      *metrics.Metrics
	logger       *slog.Logger
	pollInterval time.Duration

	running atomic.Bool // guards RunBatch single-flight
}

// NewConsumer creates a new Consumer.
func NewConsumer(taskSvc portssvc.TaskSvcFacade, reconSvc portssvc.ReconSvcFacade, m *metrics.Metrics, logger *slog.Logger, pollInterval time.Duration) *Consumer {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Consumer{
		taskSvc:      taskSvc,
		reconSvc:     reconSvc,
		metrics:      m,
		logger:       logger.With(slog.String("component", "recon_worker")),
		pollInterval: pollInterval,
	}
}

// Run polls the queue until ctx is cancelled. An empty queue sleeps for the
// poll interval; a drained task is followed immediately by the next claim.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Info("Recon worker started", slog.Duration("poll_interval", c.pollInterval))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Recon worker stopped")
			return
		default:
		}

		worked, err := c.processOne(ctx)
		if err != nil {
			c.logger.Error("Worker iteration failed", slog.String("error", err.Error()))
		}
		if worked {
			continue
		}

		c.metrics.QueueIdlePolls.Inc()
		select {
		case <-ctx.Done():
			c.logger.Info("Recon worker stopped")
			return
		case <-time.After(c.pollInterval):
		}
	}
}

// RunBatch drains the queue until it is empty or the budget elapses. Only one
// batch runs at a time; a second call while one is in flight returns
// ErrConflict. Safe to call on an empty queue: it returns a zero result.
func (c *Consumer) RunBatch(ctx context.Context, budget time.Duration) (*BatchResult, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%w: a recon batch is already running", apperrors.ErrConflict)
	}
	defer c.running.Store(false)

	deadline := time.Now().Add(budget)
	result := &BatchResult{}
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		worked, err := c.processOne(ctx)
		if !worked {
			if err != nil {
				return result, err
			}
			break // queue empty
		}
		result.Processed++
		if err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}
	return result, nil
}

// IsRunning reports whether a batch is currently in flight.
func (c *Consumer) IsRunning() bool {
	return c.running.Load()
}

// processOne claims and executes a single task. The first return value is
// false when the queue was empty.
func (c *Consumer) processOne(ctx context.Context) (bool, error) {
	ctx = middleware.WithLogger(ctx, c.logger)

	task, err := c.taskSvc.ClaimNextTask(ctx, domain.TaskTypeReconcileStagingEntry)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim task: %w", err)
	}

	logger := c.logger.With(slog.String("task_id", task.TaskID))
	ctx = middleware.WithLogger(ctx, logger)
	start := time.Now()

	execErr := c.execute(ctx, task)
	c.metrics.TaskDuration.Observe(time.Since(start).Seconds())

	if execErr != nil {
		logger.Warn("Task failed", slog.String("error", execErr.Error()), slog.Int("attempts", task.Attempts))
		if err := c.taskSvc.MarkFailed(ctx, task.TaskID, execErr.Error()); err != nil {
			logger.Error("Failed to record task failure", slog.String("error", err.Error()))
		}
		c.metrics.TasksProcessed.WithLabelValues(string(domain.TaskFailed)).Inc()
		return true, execErr
	}

	if err := c.taskSvc.MarkCompleted(ctx, task.TaskID); err != nil {
		logger.Error("Failed to record task completion", slog.String("error", err.Error()))
		return true, err
	}
	c.metrics.TasksProcessed.WithLabelValues(string(domain.TaskCompleted)).Inc()
	return true, nil
}

// execute runs the task's staging entry through the recon engine. A malformed
// payload fails the task without touching any staging entry.
func (c *Consumer) execute(ctx context.Context, task *domain.ProcessTask) error {
	var payload domain.ReconTaskPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return fmt.Errorf("malformed task payload: %w", err)
	}
	if payload.StagingEntryID == "" {
		return errors.New("task payload has no staging entry id")
	}

	result, err := c.reconSvc.ProcessStagingEntry(ctx, payload.StagingEntryID)
	if result != nil {
		c.metrics.ReconOutcomes.WithLabelValues(string(result.Outcome)).Inc()
	}
	if err != nil {
		return fmt.Errorf("recon of staging entry %s: %w", payload.StagingEntryID, err)
	}
	return nil
}
