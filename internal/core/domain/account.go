package domain

// AccountType defines the balance sign convention of an account.
type AccountType string

const (
	DebitNormal  AccountType = "DEBIT_NORMAL"
	CreditNormal AccountType = "CREDIT_NORMAL"
)

// Valid reports whether the account type is a recognized value.
func (t AccountType) Valid() bool {
	return t == DebitNormal || t == CreditNormal
}

// Account represents a financial account within the core domain.
// Type and currency are immutable after creation.
type Account struct {
	AccountID   string      `json:"accountID"`   // Primary Key (UUID)
	MerchantID  string      `json:"merchantID"`  // FK -> merchants.merchant_id (NON-NULL)
	Name        string      `json:"name"`        // User-defined name
	AccountType AccountType `json:"accountType"` // DEBIT_NORMAL or CREDIT_NORMAL
	Currency    string      `json:"currency"`    // ISO currency code
	AuditFields
}
