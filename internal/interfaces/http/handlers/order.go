// internal/interfaces/http/handlers/order.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/cart"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
	"github.com/sip-sunshine/restaurant-backend/internal/interfaces/http/middleware"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
	"github.com/sirupsen/logrus"
)

// OrderNotifier sends customer emails about an order
type OrderNotifier interface {
	SendOrderConfirmationEmail(ctx context.Context, snap order.Snapshot, trackingURL string) error
	SendOrderStatusUpdateEmail(ctx context.Context, snap order.Snapshot, trackingURL string) error
}

// ReceiptRenderer produces the receipt PDF of an order
type ReceiptRenderer interface {
	GenerateReceipt(snap order.Snapshot) ([]byte, error)
}

// TrackingCodes builds tracking links and their QR images
type TrackingCodes interface {
	TrackingURL(reference string) string
	Generate(reference string) ([]byte, error)
}

// OrderHandler handles public order endpoints
type OrderHandler struct {
	orderService *order.Service
	cartService  *cart.Service
	notifier     OrderNotifier
	receipts     ReceiptRenderer
	tracking     TrackingCodes
	logger       *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	orderService *order.Service,
	cartService *cart.Service,
	notifier OrderNotifier,
	receipts ReceiptRenderer,
	tracking TrackingCodes,
	logger *logrus.Logger,
) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		cartService:  cartService,
		notifier:     notifier,
		receipts:     receipts,
		tracking:     tracking,
		logger:       logger,
	}
}

// CreateOrder handles POST /orders. Guests and signed-in customers may
// order; a signed-in customer's order is linked to the account.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid JSON",
		})
		return
	}

	ctx := c.Request.Context()
	userID := middleware.UserIDPtr(c)

	created, err := h.orderService.Create(ctx, &req, userID)
	if err != nil {
		if apperrors.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": err.Error(),
			})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error creating order: " + err.Error(),
		})
		return
	}

	reference := h.orderService.Reference(created)
	log := h.logger.WithFields(logrus.Fields{
		"order_id":     created.ID,
		"order_number": reference,
	})

	// The order stands even if the cart or the email cannot be handled
	owner := cart.Owner{UserID: userID, SessionID: sessionFromRequest(c)}
	if owner.UserID != nil || owner.SessionID != "" {
		if err := h.cartService.Clear(ctx, owner); err != nil {
			log.WithError(err).Warn("Failed to clear cart after order")
		}
	}

	snap := h.orderService.Snapshot(ctx, created)
	if err := h.notifier.SendOrderConfirmationEmail(ctx, snap, h.tracking.TrackingURL(reference)); err != nil {
		log.WithError(err).Warn("Failed to send order confirmation email")
	}

	log.Info("Order created")

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Order created successfully",
		"order_id":     created.ID,
		"order_number": reference,
		"total":        created.Total,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	found, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.orderService.Snapshot(c.Request.Context(), found))
}

// TrackOrder handles GET /orders/track/:reference
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	found, err := h.orderService.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		if apperrors.IsNotFound(err) || apperrors.IsValidation(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		respondError(c, err, "Failed to retrieve order")
		return
	}

	c.JSON(http.StatusOK, h.orderService.Snapshot(c.Request.Context(), found))
}

// GetOrderQR handles GET /orders/:id/qr
func (h *OrderHandler) GetOrderQR(c *gin.Context) {
	found, ok := h.load(c)
	if !ok {
		return
	}

	png, err := h.tracking.Generate(h.orderService.Reference(found))
	if err != nil {
		respondError(c, err, "Failed to generate QR code")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// GetOrderReceipt handles GET /orders/:id/receipt
func (h *OrderHandler) GetOrderReceipt(c *gin.Context) {
	found, ok := h.load(c)
	if !ok {
		return
	}

	snap := h.orderService.Snapshot(c.Request.Context(), found)
	pdf, err := h.receipts.GenerateReceipt(snap)
	if err != nil {
		respondError(c, err, "Failed to generate receipt")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=receipt-"+snap.OrderNumber+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *OrderHandler) load(c *gin.Context) (*order.Order, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	found, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Order not found")
		return nil, false
	}
	return found, true
}
