package models

import (
	"encoding/json"
	"time"
)

// TaskStatus indicates the lifecycle state of a process task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskProcessing TaskStatus = "PROCESSING"
	TaskRetry      TaskStatus = "RETRY"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskFailed     TaskStatus = "FAILED"
)

// ProcessTask mirrors the process_tasks table.
type ProcessTask struct {
	TaskID              string          `json:"taskID"` // Primary Key (UUID)
	TaskType            string          `json:"taskType"`
	Payload             json.RawMessage `json:"payload"` // JSONB
	Status              TaskStatus      `json:"status"`
	Attempts            int             `json:"attempts"`
	LastError           *string         `json:"lastError,omitempty"`
	ProcessingStartedAt *time.Time      `json:"processingStartedAt,omitempty"`
	CompletedAt         *time.Time      `json:"completedAt,omitempty"`
	AuditFields
}
