package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// Metadata is the structured key/value blob carried by entries, transactions and
// staging entries. Persisted as JSONB.
type Metadata map[string]string

// Well-known metadata keys.
const (
	MetaKeyOrderID            = "order_id"
	MetaKeyError              = "error"
	MetaKeyErrorType          = "error_type"
	MetaKeyTransactionID      = "transaction_id"
	MetaKeyMatchedEntryID     = "matched_entry_id"
	MetaKeyDerivedFromEntryID = "derived_from_entry_id"
	MetaKeyStagingEntryID     = "staging_entry_id"
	MetaKeyEvolvedFromID      = "evolved_from_transaction_id"
)

// Clone returns a copy of the metadata so callers can extend it without
// mutating the source map.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// OrderID returns the order correlation key, if present.
func (m Metadata) OrderID() (string, bool) {
	v, ok := m[MetaKeyOrderID]
	return v, ok && v != ""
}
