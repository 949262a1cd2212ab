package models

// ReconRule mirrors the recon_rules table.
type ReconRule struct {
	ReconRuleID  string `json:"reconRuleID"` // Primary Key (UUID)
	MerchantID   string `json:"merchantID"`  // FK -> merchants.merchant_id
	AccountOneID string `json:"accountOneID"`
	AccountTwoID string `json:"accountTwoID"`
	AuditFields
}
