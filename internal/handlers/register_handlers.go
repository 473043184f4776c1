package handlers

import (
	"net/http"

	"github.com/finbook/finbook/internal/core/services"
	"github.com/gin-gonic/gin"
)

// RegisterHandlers mounts every API route on the engine.
func RegisterHandlers(r *gin.Engine, svcs *services.Container) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	registerCurrencyRoutes(v1, svcs.Currency)
	registerAccountRoutes(v1, svcs.Account, svcs.Balance)
	registerEntryRoutes(v1, svcs.Journal)
	registerLedgerRoutes(v1, svcs.Ledger)
}
