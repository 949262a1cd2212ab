package domain

import (
	"encoding/json"
	"time"
)

// TaskType identifies the kind of work a process task carries.
type TaskType string

// TaskTypeReconcileStagingEntry drives one staging entry through the recon engine.
const TaskTypeReconcileStagingEntry TaskType = "RECONCILE_STAGING_ENTRY"

// TaskStatus indicates the lifecycle state of a process task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskProcessing TaskStatus = "PROCESSING"
	TaskRetry      TaskStatus = "RETRY"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskFailed     TaskStatus = "FAILED"
)

// Valid reports whether the task status is a recognized value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskProcessing, TaskRetry, TaskCompleted, TaskFailed:
		return true
	}
	return false
}

// Terminal reports whether the status ends the task's lifecycle. FAILED is
// terminal unless the task is re-enqueued externally as RETRY.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// ProcessTask is a unit of asynchronous work in the polling task queue.
type ProcessTask struct {
	TaskID              string          `json:"taskID"` // Primary Key (UUID)
	TaskType            TaskType        `json:"taskType"`
	Payload             json.RawMessage `json:"payload"`
	Status              TaskStatus      `json:"status"`
	Attempts            int             `json:"attempts"`
	LastError           *string         `json:"lastError,omitempty"`
	ProcessingStartedAt *time.Time      `json:"processingStartedAt,omitempty"`
	CompletedAt         *time.Time      `json:"completedAt,omitempty"`
	AuditFields
}

// ReconTaskPayload is the payload shape of reconciliation tasks.
type ReconTaskPayload struct {
	StagingEntryID string `json:"staging_entry_id"`
}
