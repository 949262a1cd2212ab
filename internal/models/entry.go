package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether an entry is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// EntryStatus indicates the lifecycle state of an entry.
type EntryStatus string

const (
	EntryPosted   EntryStatus = "POSTED"
	EntryExpected EntryStatus = "EXPECTED"
	EntryArchived EntryStatus = "ARCHIVED"
)

// Entry mirrors the entries table.
type Entry struct {
	EntryID       string            `json:"entryID"`       // Primary Key (UUID)
	AccountID     string            `json:"accountID"`     // FK -> accounts.account_id (Not Null)
	TransactionID string            `json:"transactionID"` // FK -> transactions.transaction_id (Not Null)
	EntryType     EntryType         `json:"entryType"`
	Amount        decimal.Decimal   `json:"amount"` // Positive
	Currency      string            `json:"currency"`
	Status        EntryStatus       `json:"status"`
	EffectiveDate time.Time         `json:"effectiveDate"`
	Metadata      map[string]string `json:"metadata"` // JSONB
	DiscardedAt   *time.Time        `json:"discardedAt,omitempty"`
	AuditFields
}
