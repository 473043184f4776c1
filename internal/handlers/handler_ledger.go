package handlers

import (
	"log/slog"
	"net/http"

	"github.com/finbook/finbook/internal/core/ports"
	"github.com/finbook/finbook/internal/dto"
	"github.com/finbook/finbook/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles ledger history and trading-balance queries.
type ledgerHandler struct {
	ledgerService ports.LedgerService
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls ports.LedgerService) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// registerLedgerRoutes registers ledger query routes. Queries are POSTs
// because the filter shape (date window, meta match, pagination) does not fit
// query parameters.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService ports.LedgerService) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("", h.queryLedger)
		ledger.POST("/trading-balance", h.tradingBalance)
	}
}

// queryLedger returns the filtered history of the account subtree at ?path=.
func (h *ledgerHandler) queryLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: path"})
		return
	}

	var req dto.LedgerQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LedgerQuery", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txns, err := h.ledgerService.Ledger(c.Request.Context(), path, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to query ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToRichTransactionResponses(txns))
}

// tradingBalance returns the whole-ledger per-currency trading balance inside
// the posted date window.
func (h *ledgerHandler) tradingBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TradingBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tb, err := h.ledgerService.TradingBalance(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute trading balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTradingBalanceResponse(tb))
}
