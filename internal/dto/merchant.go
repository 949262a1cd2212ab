package dto

import (
	"time"

	"github.com/reconbooks/recon_backend/internal/core/domain"
)

// CreateMerchantRequest defines the data needed to create a new merchant.
type CreateMerchantRequest struct {
	Name string `json:"name" binding:"required"`
}

// MerchantResponse defines the data returned for a merchant.
type MerchantResponse struct {
	MerchantID    string    `json:"merchantID"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToMerchantResponse converts a domain.Merchant to MerchantResponse DTO.
func ToMerchantResponse(m *domain.Merchant) MerchantResponse {
	return MerchantResponse{
		MerchantID:    m.MerchantID,
		Name:          m.Name,
		CreatedAt:     m.CreatedAt,
		LastUpdatedAt: m.LastUpdatedAt,
	}
}

// ListMerchantsParams defines query parameters for listing merchants.
type ListMerchantsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
