package domain

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

// Valid reports whether the staging entry status is a recognized value.
func (s StagingEntryStatus) Valid() bool {
	switch s {
	case StagingPending, StagingProcessed, StagingNeedsManualReview:
		return true
	}
	return false
}

// ProcessingMode selects the recon state machine applied to a staging entry.
type ProcessingMode string

const (
	// ModeConfirmation reports fulfillment of a previously expected entry.
	ModeConfirmation ProcessingMode = "CONFIRMATION"
	// ModeTransaction is a new source leg needing a generated expectation.
	ModeTransaction ProcessingMode = "TRANSACTION"
)

// Valid reports whether the processing mode is a recognized value.
func (m ProcessingMode) Valid() bool {
	return m == ModeConfirmation || m == ModeTransaction
}

// StagingEntry is an externally reported movement awaiting reconciliation.
// PROCESSED (discarded) and NEEDS_MANUAL_REVIEW (kept, annotated with
// error/error_type metadata) are terminal.
type StagingEntry struct {
	StagingEntryID string             `json:"stagingEntryID"` // Primary Key (UUID)
	AccountID      string             `json:"accountID"`      // FK -> accounts.account_id (Not Null)
	EntryType      EntryType          `json:"entryType"`
	Amount         decimal.Decimal    `json:"amount"`
	Currency       string             `json:"currency"`
	Status         StagingEntryStatus `json:"status"`
	ProcessingMode ProcessingMode     `json:"processingMode"`
	EffectiveDate  time.Time          `json:"effectiveDate"`
	Metadata       Metadata           `json:"metadata"` // carries the optional order_id correlation key
	DiscardedAt    *time.Time         `json:"discardedAt,omitempty"`
	AuditFields
}
