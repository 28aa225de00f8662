package wallet_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wallet-ledger/internal/wallet_api/handler"
	"github.com/wallet-ledger/internal/wallet_api/middleware"
)

// handlers groups the HTTP handlers mounted under /api/v1
type handlers struct {
	account     *handler.AccountHandler
	transfer    *handler.TransferHandler
	contact     *handler.ContactHandler
	request     *handler.MoneyRequestHandler
	schedule    *handler.ScheduledTransferHandler
	preferences *handler.PreferencesHandler
}

// setupRouter configures API routes and middleware for the application.
// metricsHandler is mounted on /metrics when not nil.
func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers, metricsHandler http.Handler) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		v1.GET("/account", h.account.GetAccount)
		v1.PUT("/account/balance", h.account.UpdateBalance)

		cards := v1.Group("/cards")
		{
			cards.GET("", h.account.GetCards)
			cards.POST("/:id/toggle", h.account.ToggleCard)
		}

		contacts := v1.Group("/contacts")
		{
			contacts.GET("", h.contact.List)
			contacts.GET("/search", h.contact.Search)
			contacts.GET("/:id", h.contact.GetByID)
			contacts.POST("", h.contact.Create)
		}

		transfers := v1.Group("/transfers")
		{
			transfers.POST("", h.transfer.Create)
			transfers.GET("/history", h.transfer.History)
		}
		v1.GET("/transactions", h.transfer.Transactions)

		requests := v1.Group("/requests")
		{
			requests.GET("", h.request.List)
			requests.POST("", h.request.Create)
			requests.POST("/:id/accept", h.request.Accept)
			requests.POST("/:id/reject", h.request.Reject)
			requests.DELETE("/:id", h.request.Cancel)
		}

		scheduled := v1.Group("/scheduled-transfers")
		{
			scheduled.GET("", h.schedule.List)
			scheduled.POST("", h.schedule.Create)
			scheduled.PATCH("/:id", h.schedule.Update)
			scheduled.DELETE("/:id", h.schedule.Cancel)
		}

		v1.GET("/preferences", h.preferences.Get)
		v1.PUT("/preferences", h.preferences.Update)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}
}
