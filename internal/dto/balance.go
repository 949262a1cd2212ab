package dto

import "github.com/reconbooks/recon_backend/internal/core/domain"

// BalanceResponse defines the per-account balance view. Amounts are fixed
// two-decimal strings.
type BalanceResponse struct {
	AccountID        string `json:"accountID"`
	Currency         string `json:"currency"`
	PostedBalance    string `json:"posted_balance"`
	PendingBalance   string `json:"pending_balance"`
	AvailableBalance string `json:"available_balance"`
}

// BatchBalanceRequest asks for balances of several accounts at once.
type BatchBalanceRequest struct {
	AccountIDs []string `json:"accountIDs" binding:"required,min=1,dive,required"`
}

// BatchBalanceResponse maps account id to its balance view.
type BatchBalanceResponse struct {
	Balances map[string]BalanceResponse `json:"balances"`
}

// ToBalanceResponse converts a domain.AccountBalance to its response DTO.
func ToBalanceResponse(b *domain.AccountBalance) BalanceResponse {
	return BalanceResponse{
		AccountID:        b.AccountID,
		Currency:         b.Currency,
		PostedBalance:    b.PostedBalance.StringFixed(2),
		PendingBalance:   b.PendingBalance.StringFixed(2),
		AvailableBalance: b.AvailableBalance.StringFixed(2),
	}
}
