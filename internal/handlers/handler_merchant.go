package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/dto"
	"github.com/reconbooks/recon_backend/internal/middleware"
)

// merchantHandler handles HTTP requests related to merchants.
type merchantHandler struct {
	merchantService portssvc.MerchantSvcFacade
}

// newMerchantHandler creates a new merchantHandler.
func newMerchantHandler(ms portssvc.MerchantSvcFacade) *merchantHandler {
	return &merchantHandler{
		merchantService: ms,
	}
}

// registerMerchantRoutes registers routes related to merchants and their
// nested resources.
func registerMerchantRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newMerchantHandler(services.Merchant)

	merchants := rg.Group("/merchants")
	{
		merchants.POST("", h.createMerchant)
		merchants.GET("", h.listMerchants)
		merchants.GET("/:merchant_id", h.getMerchantByID)

		registerAccountRoutes(merchants, services.Account, services.Balance)
		registerReconRuleRoutes(merchants, services.ReconRule)
	}
}

func (h *merchantHandler) createMerchant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateMerchant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	merchant, err := h.merchantService.CreateMerchant(c.Request.Context(), req)
	if err != nil {
		logger.Error("Failed to create merchant in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create merchant"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToMerchantResponse(merchant))
}

func (h *merchantHandler) getMerchantByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	merchantID := c.Param("merchant_id")

	merchant, err := h.merchantService.GetMerchantByID(c.Request.Context(), merchantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Merchant not found"})
		} else {
			logger.Error("Failed to get merchant from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve merchant"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMerchantResponse(merchant))
}

func (h *merchantHandler) listMerchants(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListMerchantsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	merchants, err := h.merchantService.ListMerchants(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list merchants from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list merchants"})
		return
	}

	responses := make([]dto.MerchantResponse, len(merchants))
	for i, m := range merchants {
		responses[i] = dto.ToMerchantResponse(&m)
	}
	c.JSON(http.StatusOK, responses)
}
