package domain

import "github.com/shopspring/decimal"

// BalanceSums holds the raw status/type-grouped sums over an account's entries.
// Pending sums include both POSTED and EXPECTED entries.
type BalanceSums struct {
	PostedDebits   decimal.Decimal
	PostedCredits  decimal.Decimal
	PendingDebits  decimal.Decimal
	PendingCredits decimal.Decimal
}

// AccountBalance is the derived per-account balance view.
//
// Available is intentionally conservative: it nets settled inflows against all
// pending opposite-side obligations and never credits unsettled inflows.
type AccountBalance struct {
	AccountID        string          `json:"accountID"`
	Currency         string          `json:"currency"`
	PostedBalance    decimal.Decimal `json:"postedBalance"`
	PendingBalance   decimal.Decimal `json:"pendingBalance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
}
