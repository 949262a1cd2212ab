package domain

// ReconRule is a merchant-scoped directed pairing of two accounts.
//
// A staging entry whose account matches AccountOneID is a new source leg: the
// rule's AccountTwoID is the contra account for the generated expectation. A
// staging entry whose account matches AccountTwoID confirms a previously
// expected entry on that account.
type ReconRule struct {
	ReconRuleID  string `json:"reconRuleID"` // Primary Key (UUID)
	MerchantID   string `json:"merchantID"`
	AccountOneID string `json:"accountOneID"`
	AccountTwoID string `json:"accountTwoID"` // must differ from AccountOneID
	AuditFields
}
