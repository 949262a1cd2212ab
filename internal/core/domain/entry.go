package domain

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

// Valid reports whether the entry type is a recognized value.
func (t EntryType) Valid() bool {
	return t == Debit || t == Credit
}

// Opposite returns the complementary entry type.
func (t EntryType) Opposite() EntryType {
	if t == Debit {
		return Credit
	}
	return Debit
}

// EntryStatus indicates the lifecycle state of an entry.
type EntryStatus string

const (
	EntryPosted   EntryStatus = "POSTED"
	EntryExpected EntryStatus = "EXPECTED"
	EntryArchived EntryStatus = "ARCHIVED"
)

// Valid reports whether the entry status is a recognized value.
func (s EntryStatus) Valid() bool {
	switch s {
	case EntryPosted, EntryExpected, EntryArchived:
		return true
	}
	return false
}

// Entry represents a single leg of a transaction, affecting one account.
// Entries are created only through the ledger service and are never mutated
// except for status/discarded_at transitions during archival.
type Entry struct {
	EntryID       string          `json:"entryID"`       // Primary Key (UUID)
	AccountID     string          `json:"accountID"`     // FK -> accounts.account_id (Not Null)
	TransactionID string          `json:"transactionID"` // FK -> transactions.transaction_id (Not Null)
	EntryType     EntryType       `json:"entryType"`     // DEBIT or CREDIT
	Amount        decimal.Decimal `json:"amount"`        // Positive value; precise decimal type
	Currency      string          `json:"currency"`      // Must match transaction currency
	Status        EntryStatus     `json:"status"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	Metadata      Metadata        `json:"metadata"`
	DiscardedAt   *time.Time      `json:"discardedAt,omitempty"`
	AuditFields
}

// EntryInput describes one leg of a transaction to be created.
type EntryInput struct {
	AccountID     string
	EntryType     EntryType
	Amount        decimal.Decimal
	Currency      string
	Status        EntryStatus
	EffectiveDate time.Time
	Metadata      Metadata
}

// EntryWithTransaction pairs an entry with its owning transaction, as returned
// by the expected-entry candidate query.
type EntryWithTransaction struct {
	Entry       Entry
	Transaction Transaction
}
