package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fingenie-expense-tracker/internal/api_gateway/handler"
	"github.com/fingenie-expense-tracker/internal/api_gateway/middleware"
	"github.com/fingenie-expense-tracker/internal/platform/metrics"
)

// handlers groups the HTTP handlers mounted by setupRouter
type handlers struct {
	voice        *handler.VoiceHandler
	transactions *handler.TransactionHandler
	history      *handler.HistoryHandler
	stats        *handler.StatsHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	h handlers,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	allowedOrigins []string,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(allowedOrigins))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		v1.POST("/voice-expense", h.voice.Parse)

		transactions := v1.Group("/transactions")
		{
			transactions.POST("", h.transactions.Create)
			transactions.GET("", h.transactions.List)
			transactions.GET("/:id", h.transactions.GetByID)
		}

		history := v1.Group("/history")
		{
			history.GET("", h.history.Query)
			history.GET("/export", h.history.Export)
		}

		v1.GET("/stats", h.stats.Get)
	}

	// Unversioned paths used by the web client
	r.POST("/voice-expense", h.voice.Parse)
	r.POST("/save-expense", h.transactions.Create)
	r.GET("/transactions", h.transactions.ListLegacy)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
