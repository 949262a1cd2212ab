package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/reconbooks/recon_backend/internal/apperrors"
	"github.com/reconbooks/recon_backend/internal/core/domain"
	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/dto"
	"github.com/reconbooks/recon_backend/internal/middleware"
)

// stagingEntryHandler handles HTTP requests related to staging entries.
type stagingEntryHandler struct {
	stagingService portssvc.StagingEntrySvcFacade
}

// newStagingEntryHandler creates a new stagingEntryHandler.
func newStagingEntryHandler(ss portssvc.StagingEntrySvcFacade) *stagingEntryHandler {
	return &stagingEntryHandler{
		stagingService: ss,
	}
}

// registerStagingEntryRoutes registers routes related to staging entries.
func registerStagingEntryRoutes(rg *gin.RouterGroup, stagingService portssvc.StagingEntrySvcFacade) {
	h := newStagingEntryHandler(stagingService)

	staging := rg.Group("/staging-entries")
	{
		staging.POST("", h.createStagingEntry)
		staging.POST("/import", h.importStagingEntries)
		staging.GET("", h.listStagingEntries)
		staging.GET("/:staging_entry_id", h.getStagingEntryByID)
	}
}

func (h *stagingEntryHandler) createStagingEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateStagingEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateStagingEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.stagingService.CreateStagingEntry(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create staging entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create staging entry"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToStagingEntryResponse(entry))
}

// csvHeader is the required column order of a staging entry import file.
var csvHeader = []string{"account_id", "entry_type", "amount", "currency", "processing_mode", "effective_date", "order_id"}

// importStagingEntries ingests a CSV file of staging entries. Each row is
// ingested independently; bad rows are reported but do not abort the import.
func (h *stagingEntryHandler) importStagingEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'file' form field: " + err.Error()})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read CSV header: " + err.Error()})
		return
	}
	for i, col := range csvHeader {
		if header[i] != col {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unexpected CSV header: column %d must be %q", i+1, col)})
			return
		}
	}

	resp := dto.ImportStagingEntriesResponse{}
	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		req, err := csvRecordToRequest(record)
		if err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if _, err := h.stagingService.CreateStagingEntry(c.Request.Context(), req); err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		resp.Imported++
	}

	logger.Info("Staging entry import finished",
		slog.Int("imported", resp.Imported),
		slog.Int("errors", len(resp.Errors)),
	)
	c.JSON(http.StatusOK, resp)
}

func csvRecordToRequest(record []string) (dto.CreateStagingEntryRequest, error) {
	amount, err := decimal.NewFromString(record[2])
	if err != nil {
		return dto.CreateStagingEntryRequest{}, fmt.Errorf("invalid amount %q: %w", record[2], err)
	}

	req := dto.CreateStagingEntryRequest{
		AccountID:      record[0],
		EntryType:      domain.EntryType(record[1]),
		Amount:         amount,
		Currency:       record[3],
		ProcessingMode: domain.ProcessingMode(record[4]),
		OrderID:        record[6],
	}
	if record[5] != "" {
		effectiveDate, err := time.Parse(time.RFC3339, record[5])
		if err != nil {
			return dto.CreateStagingEntryRequest{}, fmt.Errorf("invalid effective_date %q: %w", record[5], err)
		}
		req.EffectiveDate = &effectiveDate
	}
	return req, nil
}

func (h *stagingEntryHandler) getStagingEntryByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	stagingEntryID := c.Param("staging_entry_id")

	entry, err := h.stagingService.GetStagingEntryByID(c.Request.Context(), stagingEntryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Staging entry not found"})
		} else {
			logger.Error("Failed to get staging entry from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve staging entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToStagingEntryResponse(entry))
}

type listStagingEntriesParams struct {
	Status string `form:"status,default=PENDING"`
	Limit  int    `form:"limit,default=50"`
	Offset int    `form:"offset,default=0"`
}

func (h *stagingEntryHandler) listStagingEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params listStagingEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, err := h.stagingService.ListStagingEntriesByStatus(c.Request.Context(), domain.StagingEntryStatus(params.Status), params.Limit, params.Offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list staging entries from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list staging entries"})
		}
		return
	}

	responses := make([]dto.StagingEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = dto.ToStagingEntryResponse(&e)
	}
	c.JSON(http.StatusOK, responses)
}
