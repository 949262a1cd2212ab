package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionExpected TransactionStatus = "EXPECTED"
	TransactionPosted   TransactionStatus = "POSTED"
	TransactionArchived TransactionStatus = "ARCHIVED"
	TransactionMismatch TransactionStatus = "MISMATCH"
)

// Valid reports whether the transaction status is a recognized value.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionExpected, TransactionPosted, TransactionArchived, TransactionMismatch:
		return true
	}
	return false
}

// Terminal reports whether the status is a terminal state for a transaction
// version. At most one version per logical transaction may be non-terminal.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionArchived || s == TransactionMismatch
}

// Transaction represents a balanced pair of entries. Evolution never updates a
// transaction in place: the prior version is archived and a new row is created
// under the same logical transaction id with version+1.
type Transaction struct {
	TransactionID        string            `json:"transactionID"`        // Primary Key (UUID)
	LogicalTransactionID string            `json:"logicalTransactionID"` // Groups all versions of an evolving transaction
	Version              int               `json:"version"`              // >= 1, strictly increasing per logical id
	MerchantID           string            `json:"merchantID"`
	Status               TransactionStatus `json:"status"`
	Amount               decimal.Decimal   `json:"amount"`
	Currency             string            `json:"currency"`
	Metadata             Metadata          `json:"metadata"`
	DiscardedAt          *time.Time        `json:"discardedAt,omitempty"`
	AuditFields
}

// Live reports whether this version is the active one for its logical id.
func (t Transaction) Live() bool {
	return !t.Status.Terminal()
}

// TransactionShell describes the transaction row to be created around two legs.
type TransactionShell struct {
	LogicalTransactionID string
	Version              int
	MerchantID           string
	Status               TransactionStatus
	Amount               decimal.Decimal
	Currency             string
	Metadata             Metadata
}

// TransactionWithEntries bundles a transaction with its two entries.
type TransactionWithEntries struct {
	Transaction Transaction `json:"transaction"`
	Entries     []Entry     `json:"entries"`
}
