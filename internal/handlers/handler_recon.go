package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/dto"
	"github.com/reconbooks/recon_backend/internal/middleware"
	"github.com/reconbooks/recon_backend/internal/worker"
)

// reconHandler exposes on-demand batch reconciliation and task management.
type reconHandler struct {
	consumer    *worker.Consumer
	taskService portssvc.TaskSvcFacade
	batchBudget time.Duration
}

// newReconHandler creates a new reconHandler.
func newReconHandler(consumer *worker.Consumer, taskService portssvc.TaskSvcFacade, batchBudget time.Duration) *reconHandler {
	return &reconHandler{
		consumer:    consumer,
		taskService: taskService,
		batchBudget: batchBudget,
	}
}

// registerReconRoutes registers the recon run/status and task routes.
func registerReconRoutes(rg *gin.RouterGroup, consumer *worker.Consumer, taskService portssvc.TaskSvcFacade, batchBudget time.Duration) {
	h := newReconHandler(consumer, taskService, batchBudget)

	recon := rg.Group("/recon")
	{
		recon.POST("/run", h.runRecon)
		recon.GET("/status", h.reconStatus)
	}

	tasks := rg.Group("/tasks")
	{
		tasks.GET("/:task_id", h.getTask)
		tasks.POST("/:task_id/requeue", h.requeueTask)
	}
}

// runRecon drains the pending task queue synchronously within the configured
// time budget. Running it on an empty queue is a no-op.
func (h *reconHandler) runRecon(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	start := time.Now()

	result, err := h.consumer.RunBatch(c.Request.Context(), h.batchBudget)
	if err != nil && errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "A recon batch is already running"})
		return
	}

	resp := dto.ReconRunResponse{
		DurationMs: time.Since(start).Milliseconds(),
	}
	if result != nil {
		resp.Processed = result.Processed
		resp.Succeeded = result.Succeeded
		resp.Failed = result.Failed
	}
	if err != nil {
		// Partial results are still reported; failed entries are already
		// marked for manual review.
		resp.Error = err.Error()
		logger.Warn("Recon batch finished with errors", slog.String("error", err.Error()), slog.Int("processed", resp.Processed))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *reconHandler) reconStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ReconStatusResponse{Running: h.consumer.IsRunning()})
}

func (h *reconHandler) getTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	taskID := c.Param("task_id")

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			logger.Error("Failed to get task from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	c.JSON(http.StatusOK, task)
}

// requeueTask moves a FAILED task back to RETRY so the worker retries it.
func (h *reconHandler) requeueTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	taskID := c.Param("task_id")

	if err := h.taskService.RequeueTask(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to requeue task", slog.String("error", err.Error()), slog.String("task_id", taskID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to requeue task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"taskID": taskID, "status": "RETRY"})
}
