package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/frontdash/checkout/internal/api/handlers"
	"github.com/frontdash/checkout/internal/config"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svc handlers.CheckoutService, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		checkouts := v1.Group("/checkouts")
		{
			checkouts.POST("", handlers.HandleStartCheckout(svc, logger))
			checkouts.GET("/:id", handlers.HandleGetCheckout(svc, logger))
			checkouts.PUT("/:id/tip", handlers.HandleSetTip(svc, logger))
			checkouts.POST("/:id/payment/start", handlers.HandleBeginPayment(svc, logger))
			checkouts.POST("/:id/payment", handlers.HandleSubmitPayment(svc, logger))
			checkouts.POST("/:id/back", handlers.HandleBack(svc, logger))
			checkouts.POST("/:id/delivery", handlers.HandleSubmitDelivery(svc, logger))
		}

		v1.GET("/confirmations", handlers.HandleListConfirmations(svc, logger))
		v1.GET("/confirmations/:orderNumber", handlers.HandleGetConfirmation(svc, logger))
	}

	return router
}

// loggingMiddleware logs HTTP requests. Request bodies are never logged.
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
