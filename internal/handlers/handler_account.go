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

// accountHandler handles HTTP requests related to accounts and balances.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	balanceService portssvc.BalanceSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, bs portssvc.BalanceSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		balanceService: bs,
	}
}

// registerAccountRoutes registers account routes nested under merchants plus
// the flat account lookup and balance routes.
func registerAccountRoutes(merchants *gin.RouterGroup, accountService portssvc.AccountSvcFacade, balanceService portssvc.BalanceSvcFacade) {
	h := newAccountHandler(accountService, balanceService)

	merchants.POST("/:merchant_id/accounts", h.createAccount)
	merchants.GET("/:merchant_id/accounts", h.listAccounts)
}

// registerAccountLookupRoutes registers the merchant-independent account routes.
func registerAccountLookupRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, balanceService portssvc.BalanceSvcFacade) {
	h := newAccountHandler(accountService, balanceService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:account_id", h.getAccountByID)
		accounts.GET("/:account_id/balance", h.getAccountBalance)
		accounts.POST("/balances", h.getAccountBalances)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	merchantID := c.Param("merchant_id")

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), merchantID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Merchant not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	merchantID := c.Param("merchant_id")

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), merchantID, params)
	if err != nil {
		logger.Error("Failed to list accounts from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

func (h *accountHandler) getAccountByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("account_id")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to get account from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("account_id")

	balance, err := h.balanceService.GetAccountBalance(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to compute balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceResponse(balance))
}

func (h *accountHandler) getAccountBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BatchBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	balances, err := h.balanceService.GetAccountBalances(c.Request.Context(), req.AccountIDs)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to compute balances", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balances"})
		}
		return
	}

	resp := dto.BatchBalanceResponse{Balances: make(map[string]dto.BalanceResponse, len(balances))}
	for accountID, balance := range balances {
		resp.Balances[accountID] = dto.ToBalanceResponse(&balance)
	}
	c.JSON(http.StatusOK, resp)
}
