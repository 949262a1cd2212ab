package domain

// Merchant owns accounts, transactions and recon rules. All ledger data is
// scoped to exactly one merchant.
type Merchant struct {
	MerchantID string `json:"merchantID"` // Primary Key (UUID)
	Name       string `json:"name"`
	AuditFields
}
