package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StagingEntryStatus indicates the reconciliation state of a staging entry.
type StagingEntryStatus string

const (
	StagingPending           StagingEntryStatus = "PENDING"
	StagingProcessed         StagingEntryStatus = "PROCESSED"
	StagingNeedsManualReview StagingEntryStatus = "NEEDS_MANUAL_REVIEW"
)

// StagingEntry mirrors the staging_entries table.
type StagingEntry struct {
	StagingEntryID string             `json:"stagingEntryID"` // Primary Key (UUID)
	AccountID      string             `json:"accountID"`      // FK -> accounts.account_id (Not Null)
	EntryType      EntryType          `json:"entryType"`
	Amount         decimal.Decimal    `json:"amount"`
	Currency       string             `json:"currency"`
	Status         StagingEntryStatus `json:"status"`
	ProcessingMode string             `json:"processingMode"` // CONFIRMATION or TRANSACTION
	EffectiveDate  time.Time          `json:"effectiveDate"`
	Metadata       map[string]string  `json:"metadata"` // JSONB
	DiscardedAt    *time.Time         `json:"discardedAt,omitempty"`
	AuditFields
}
