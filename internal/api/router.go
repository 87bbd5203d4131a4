package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itonse/account/internal/api/handler"
	"github.com/itonse/account/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	transactionHandler *handler.TransactionHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account lifecycle
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.DELETE("", accountHandler.Delete)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:account_number/transactions", transactionHandler.GetHistory)
		}

		// Balance mutations and ledger queries
		transactions := v1.Group("/transactions")
		{
			transactions.POST("/use", transactionHandler.Use)
			transactions.POST("/cancel", transactionHandler.Cancel)
			transactions.GET("/:transaction_id", transactionHandler.GetByID)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
