package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// CreateStagingEntryRequest defines the data needed to ingest a staging entry.
type CreateStagingEntryRequest struct {
	AccountID      string                `json:"accountID" binding:"required"`
	EntryType      domain.EntryType      `json:"entryType" binding:"required,oneof=DEBIT CREDIT"`
	Amount         decimal.Decimal       `json:"amount" binding:"required,dgt0"`
	Currency       string                `json:"currency" binding:"required,len=3"`
	ProcessingMode domain.ProcessingMode `json:"processingMode" binding:"required,oneof=CONFIRMATION TRANSACTION"`
	EffectiveDate  *time.Time            `json:"effectiveDate"` // defaults to now
	OrderID        string                `json:"orderID"`       // optional correlation key
}

// StagingEntryResponse defines the data returned for a staging entry.
type StagingEntryResponse struct {
	StagingEntryID string                    `json:"stagingEntryID"`
	AccountID      string                    `json:"accountID"`
	EntryType      domain.EntryType          `json:"entryType"`
	Amount         decimal.Decimal           `json:"amount"`
	Currency       string                    `json:"currency"`
	Status         domain.StagingEntryStatus `json:"status"`
	ProcessingMode domain.ProcessingMode     `json:"processingMode"`
	EffectiveDate  time.Time                 `json:"effectiveDate"`
	Metadata       domain.Metadata           `json:"metadata"`
	DiscardedAt    *time.Time                `json:"discardedAt,omitempty"`
	CreatedAt      time.Time                 `json:"createdAt"`
}

// ToStagingEntryResponse converts a domain.StagingEntry to its response DTO.
func ToStagingEntryResponse(se *domain.StagingEntry) StagingEntryResponse {
	return StagingEntryResponse{
		StagingEntryID: se.StagingEntryID,
		AccountID:      se.AccountID,
		EntryType:      se.EntryType,
		Amount:         se.Amount,
		Currency:       se.Currency,
		Status:         se.Status,
		ProcessingMode: se.ProcessingMode,
		EffectiveDate:  se.EffectiveDate,
		Metadata:       se.Metadata,
		DiscardedAt:    se.DiscardedAt,
		CreatedAt:      se.CreatedAt,
	}
}

// ImportStagingEntriesResponse reports the result of a CSV import.
type ImportStagingEntriesResponse struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}
