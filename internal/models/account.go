package models

// AccountType defines the balance sign convention of an account.
type AccountType string

const (
	DebitNormal  AccountType = "DEBIT_NORMAL"
	CreditNormal AccountType = "CREDIT_NORMAL"
)

// Account mirrors the accounts table.
type Account struct {
	AccountID   string      `json:"accountID"`  // Primary Key (UUID)
	MerchantID  string      `json:"merchantID"` // FK -> merchants.merchant_id (Not Null)
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	Currency    string      `json:"currency"` // ISO currency code
	AuditFields
}
