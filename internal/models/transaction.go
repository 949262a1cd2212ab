package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the state of a transaction version.
type TransactionStatus string

const (
	TransactionExpected TransactionStatus = "EXPECTED"
	TransactionPosted   TransactionStatus = "POSTED"
	TransactionArchived TransactionStatus = "ARCHIVED"
	TransactionMismatch TransactionStatus = "MISMATCH"
)

// Transaction mirrors the transactions table. Versions under the same logical
// transaction id share history; at most one is live.
type Transaction struct {
	TransactionID        string            `json:"transactionID"`        // Primary Key (UUID)
	LogicalTransactionID string            `json:"logicalTransactionID"` // Not Null
	Version              int               `json:"version"`              // >= 1
	MerchantID           string            `json:"merchantID"`           // FK -> merchants.merchant_id
	Status               TransactionStatus `json:"status"`
	Amount               decimal.Decimal   `json:"amount"`
	Currency             string            `json:"currency"`
	Metadata             map[string]string `json:"metadata"` // JSONB
	DiscardedAt          *time.Time        `json:"discardedAt,omitempty"`
	AuditFields
}
