package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/finbook/finbook/internal/core/ports"
	"github.com/finbook/finbook/internal/dto"
	"github.com/finbook/finbook/internal/middleware"
	"github.com/gin-gonic/gin"
)

// entryHandler handles HTTP requests for committing and reading journal
// entries.
type entryHandler struct {
	journalService ports.JournalService
}

// newEntryHandler creates a new entryHandler.
func newEntryHandler(js ports.JournalService) *entryHandler {
	return &entryHandler{
		journalService: js,
	}
}

// registerEntryRoutes registers routes related to journal entries.
func registerEntryRoutes(rg *gin.RouterGroup, journalService ports.JournalService) {
	h := newEntryHandler(journalService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.commitEntry)
		entries.GET("/:journalID", h.getEntry)
	}
}

// commitEntry runs the double-entry commit protocol on the posted lines. The
// whole entry either commits atomically or leaves no state behind.
func (h *entryHandler) commitEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CommitEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := req.ToEntry()
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build entry")
		return
	}

	saved, err := h.journalService.Commit(c.Request.Context(), entry)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to commit entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(saved))
}

// getEntry retrieves a committed journal entry with its transactions.
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID, err := strconv.ParseInt(c.Param("journalID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal id"})
		return
	}

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), journalID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}
