package dto

import (
	"time"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// CreateReconRuleRequest defines the data needed to create a recon rule.
type CreateReconRuleRequest struct {
	AccountOneID string `json:"accountOneID" binding:"required"`
	AccountTwoID string `json:"accountTwoID" binding:"required,nefield=AccountOneID"`
}

// ReconRuleResponse defines the data returned for a recon rule.
type ReconRuleResponse struct {
	ReconRuleID   string    `json:"reconRuleID"`
	MerchantID    string    `json:"merchantID"`
	AccountOneID  string    `json:"accountOneID"`
	AccountTwoID  string    `json:"accountTwoID"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToReconRuleResponse converts a domain.ReconRule to ReconRuleResponse DTO.
func ToReconRuleResponse(r *domain.ReconRule) ReconRuleResponse {
	return ReconRuleResponse{
		ReconRuleID:   r.ReconRuleID,
		MerchantID:    r.MerchantID,
		AccountOneID:  r.AccountOneID,
		AccountTwoID:  r.AccountTwoID,
		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

// ToListReconRuleResponse converts a slice of domain.ReconRule to DTOs.
func ToListReconRuleResponse(rules []domain.ReconRule) []ReconRuleResponse {
	res := make([]ReconRuleResponse, len(rules))
	for i, r := range rules {
		res[i] = ToReconRuleResponse(&r)
	}
	return res
}
