package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// EntryResponse defines the data returned for a single entry.
type EntryResponse struct {
	EntryID       string           `json:"entryID"`
	AccountID     string           `json:"accountID"`
	TransactionID string           `json:"transactionID"`
	EntryType     domain.EntryType `json:"entryType"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	Status        domain.EntryStatus `json:"status"`
	EffectiveDate time.Time        `json:"effectiveDate"`
	Metadata      domain.Metadata  `json:"metadata"`
	DiscardedAt   *time.Time       `json:"discardedAt,omitempty"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID        string                   `json:"transactionID"`
	LogicalTransactionID string                   `json:"logicalTransactionID"`
	Version              int                      `json:"version"`
	MerchantID           string                   `json:"merchantID"`
	Status               domain.TransactionStatus `json:"status"`
	Amount               decimal.Decimal          `json:"amount"`
	Currency             string                   `json:"currency"`
	Metadata             domain.Metadata          `json:"metadata"`
	DiscardedAt          *time.Time               `json:"discardedAt,omitempty"`
	CreatedAt            time.Time                `json:"createdAt"`
	Entries              []EntryResponse          `json:"entries,omitempty"`
}

// ToEntryResponse converts a domain.Entry to EntryResponse DTO.
func ToEntryResponse(e *domain.Entry) EntryResponse {
	return EntryResponse{
		EntryID:       e.EntryID,
		AccountID:     e.AccountID,
		TransactionID: e.TransactionID,
		EntryType:     e.EntryType,
		Amount:        e.Amount,
		Currency:      e.Currency,
		Status:        e.Status,
		EffectiveDate: e.EffectiveDate,
		Metadata:      e.Metadata,
		DiscardedAt:   e.DiscardedAt,
	}
}

// ToTransactionResponse converts a transaction and its entries to the response DTO.
func ToTransactionResponse(t *domain.Transaction, entries []domain.Entry) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:        t.TransactionID,
		LogicalTransactionID: t.LogicalTransactionID,
		Version:              t.Version,
		MerchantID:           t.MerchantID,
		Status:               t.Status,
		Amount:               t.Amount,
		Currency:             t.Currency,
		Metadata:             t.Metadata,
		DiscardedAt:          t.DiscardedAt,
		CreatedAt:            t.CreatedAt,
	}
	if len(entries) > 0 {
		resp.Entries = make([]EntryResponse, len(entries))
		for i, e := range entries {
			resp.Entries[i] = ToEntryResponse(&e)
		}
	}
	return resp
}

// ToListTransactionResponse converts versions of a logical transaction to DTOs.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		res[i] = ToTransactionResponse(&t, nil)
	}
	return res
}
