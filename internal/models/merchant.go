package models

// Merchant mirrors the merchants table.
type Merchant struct {
	MerchantID string `json:"merchantID"` // Primary Key (UUID)
	Name       string `json:"name"`
	AuditFields
}
