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

// transactionHandler handles read access to transactions and their versions.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ls portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{
		ledgerService: ls,
	}
}

// registerTransactionRoutes registers routes related to transactions.
// Transactions are created only by the recon engine, so the surface is
// read-only.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("/:transaction_id", h.getTransactionByID)
		transactions.GET("/logical/:logical_transaction_id", h.listTransactionVersions)
	}
}

func (h *transactionHandler) getTransactionByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transaction_id")

	txn, err := h.ledgerService.GetTransactionWithEntries(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to get transaction from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(&txn.Transaction, txn.Entries))
}

// listTransactionVersions returns the full version history of a logical
// transaction, oldest version first.
func (h *transactionHandler) listTransactionVersions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logicalTransactionID := c.Param("logical_transaction_id")

	txns, err := h.ledgerService.ListTransactionsByLogicalID(c.Request.Context(), logicalTransactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Logical transaction not found"})
		} else {
			logger.Error("Failed to list transaction versions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transaction versions"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}
