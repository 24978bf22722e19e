package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleGetConfirmation handles GET /v1/confirmations/:orderNumber
func HandleGetConfirmation(svc CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		confirmation, err := svc.GetConfirmation(c.Request.Context(), c.Param("orderNumber"))
		if err != nil {
			respondError(c, logger, err, nil)
			return
		}

		c.JSON(http.StatusOK, confirmation)
	}
}

// HandleListConfirmations handles GET /v1/confirmations
func HandleListConfirmations(svc CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if l := c.Query("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
				limit = parsed
			}
		}

		confirmations, err := svc.ListConfirmations(c.Request.Context(), limit)
		if err != nil {
			logger.Error("Failed to list confirmations", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"confirmations": confirmations,
			"count":         len(confirmations),
		})
	}
}
