package handlers

import (
	"log/slog"
	"net/http"

	"github.com/finbook/finbook/internal/core/ports"
	"github.com/finbook/finbook/internal/dto"
	"github.com/finbook/finbook/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService ports.AccountService
	balanceService ports.BalanceService
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as ports.AccountService, bs ports.BalanceService) *accountHandler {
	return &accountHandler{
		accountService: as,
		balanceService: bs,
	}
}

// registerAccountRoutes registers routes related to accounts. Account paths
// contain colons, so lookups take the path as a query parameter instead of a
// URL segment.
func registerAccountRoutes(rg *gin.RouterGroup, accountService ports.AccountService, balanceService ports.BalanceService) {
	h := newAccountHandler(accountService, balanceService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.resolveAccount)
		accounts.GET("/tree", h.getAccountTree)
		accounts.GET("/balance", h.getAggregateBalance)
	}
}

// createAccount creates a new account at the given colon-delimited path. Every
// ancestor must already exist.
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created", slog.String("full_name", account.FullName), slog.Int64("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// resolveAccount resolves the ?path= query parameter to an account.
func (h *accountHandler) resolveAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: path"})
		return
	}

	account, err := h.accountService.ResolveAccount(c.Request.Context(), path)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountTree returns the whole chart of accounts as a tree.
func (h *accountHandler) getAccountTree(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tree, err := h.accountService.GetAccountTree(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build account tree")
		return
	}
	c.JSON(http.StatusOK, tree)
}

// getAggregateBalance returns the subtree balance of the account at ?path=,
// in base-currency units. With ?isolated=true it returns the account's own
// balance in its own currency instead, descendants excluded.
func (h *accountHandler) getAggregateBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: path"})
		return
	}

	if c.Query("isolated") == "true" {
		account, err := h.accountService.ResolveAccount(c.Request.Context(), path)
		if err != nil {
			respondServiceError(c, logger, err, "Failed to resolve account")
			return
		}
		balance, err := h.balanceService.IsolatedBalance(c.Request.Context(), *account)
		if err != nil {
			respondServiceError(c, logger, err, "Failed to compute balance")
			return
		}
		c.JSON(http.StatusOK, dto.BalanceResponse{Path: path, Balance: balance.String()})
		return
	}

	balance, err := h.balanceService.AggregateBalance(c.Request.Context(), path)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Path: path, Balance: balance.String()})
}
