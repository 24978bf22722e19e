package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontdash/checkout/internal/checkout"
	"github.com/frontdash/checkout/internal/domain"
	"github.com/frontdash/checkout/internal/service"
)

// CheckoutService is what the HTTP layer needs from the session registry
type CheckoutService interface {
	StartCheckout(ctx context.Context, req service.StartCheckoutRequest) (checkout.Snapshot, error)
	GetCheckout(id string) (checkout.Snapshot, error)
	SetTip(id string, req service.SetTipRequest) (checkout.Snapshot, error)
	BeginPayment(id string) (checkout.Snapshot, error)
	SubmitPayment(id string, in domain.PaymentInput) (checkout.Snapshot, error)
	Back(id string) (checkout.Snapshot, error)
	SubmitDelivery(ctx context.Context, id string, in domain.DeliveryInput) (*domain.OrderConfirmation, error)
	GetConfirmation(ctx context.Context, orderNumber string) (*domain.OrderConfirmation, error)
	ListConfirmations(ctx context.Context, limit int) ([]*domain.OrderConfirmation, error)
}

// HandleStartCheckout handles POST /v1/checkouts
func HandleStartCheckout(svc CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.StartCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request",
				"details": err.Error(),
			})
			return
		}

		snap, err := svc.StartCheckout(c.Request.Context(), req)
		if err != nil {
			respondError(c, logger, err, nil)
			return
		}

		c.JSON(http.StatusCreated, snap)
	}
}

// HandleGetCheckout handles GET /v1/checkouts/:id
func HandleGetCheckout(svc CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := checkoutID(c)
		if !ok {
			return
		}

		snap, err := svc.GetCheckout(id)
		if err != nil {
			respondError(c, logger, err, nil)
			return
		}

		c.JSON(http.StatusOK, snap)
	}
}

// HandleSetTip handles PUT /v1/checkouts/:id/tip
func HandleSetTip(svc CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := checkoutID(c)
		if !ok {
			return
		}

		var req service.SetTipRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}

		respondView(c, logger)(svc.SetTip(id, req))
	}
}

// HandleBeginPayment handles POST /v1/checkouts/:id/payment/start
func HandleBeginPayment(svc CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := checkoutID(c)
		if !ok {
			return
		}
		respondView(c, logger)(svc.BeginPayment(id))
	}
}

// HandleSubmitPayment handles POST /v1/checkouts/:id/payment.
// Card fields are never logged.
func HandleSubmitPayment(svc CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := checkoutID(c)
		if !ok {
			return
		}

		var in domain.PaymentInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}

		respondView(c, logger)(svc.SubmitPayment(id, in))
	}
}

// HandleBack handles POST /v1/checkouts/:id/back
func HandleBack(svc CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := checkoutID(c)
		if !ok {
			return
		}
		respondView(c, logger)(svc.Back(id))
	}
}

// HandleSubmitDelivery handles POST /v1/checkouts/:id/delivery
func HandleSubmitDelivery(svc CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := checkoutID(c)
		if !ok {
			return
		}

		var in domain.DeliveryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}

		confirmation, err := svc.SubmitDelivery(c.Request.Context(), id, in)
		if err != nil {
			// Render the retained form data alongside the error
			view, viewErr := svc.GetCheckout(id)
			if viewErr != nil {
				respondError(c, logger, err, nil)
				return
			}
			respondError(c, logger, err, view)
			return
		}

		c.JSON(http.StatusOK, confirmation)
	}
}

func respondView(c *gin.Context, logger *zap.Logger) func(checkout.Snapshot, error) {
	return func(snap checkout.Snapshot, err error) {
		if err != nil {
			var view interface{}
			if snap.ID != "" {
				view = snap
			}
			respondError(c, logger, err, view)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func checkoutID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkout ID"})
		return "", false
	}
	return id, true
}
