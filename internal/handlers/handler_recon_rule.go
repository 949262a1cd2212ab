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

// reconRuleHandler handles HTTP requests related to recon rules.
type reconRuleHandler struct {
	ruleService portssvc.ReconRuleSvcFacade
}

// newReconRuleHandler creates a new reconRuleHandler.
func newReconRuleHandler(rs portssvc.ReconRuleSvcFacade) *reconRuleHandler {
	return &reconRuleHandler{
		ruleService: rs,
	}
}

// registerReconRuleRoutes registers recon rule routes nested under merchants.
func registerReconRuleRoutes(merchants *gin.RouterGroup, ruleService portssvc.ReconRuleSvcFacade) {
	h := newReconRuleHandler(ruleService)

	merchants.POST("/:merchant_id/recon-rules", h.createReconRule)
	merchants.GET("/:merchant_id/recon-rules", h.listReconRules)
}

func (h *reconRuleHandler) createReconRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	merchantID := c.Param("merchant_id")

	var req dto.CreateReconRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReconRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rule, err := h.ruleService.CreateReconRule(c.Request.Context(), merchantID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create recon rule in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recon rule"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToReconRuleResponse(rule))
}

func (h *reconRuleHandler) listReconRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	merchantID := c.Param("merchant_id")

	rules, err := h.ruleService.ListReconRules(c.Request.Context(), merchantID)
	if err != nil {
		logger.Error("Failed to list recon rules from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recon rules"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListReconRuleResponse(rules))
}
