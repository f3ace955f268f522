// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/user"
	"github.com/sip-sunshine/restaurant-backend/internal/interfaces/http/middleware"
	"github.com/sirupsen/logrus"
)

// AdminHandler handles back-office endpoints for staff
type AdminHandler struct {
	orderService *order.Service
	userService  *user.Service
	notifier     OrderNotifier
	tracking     TrackingCodes
	logger       *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	orderService *order.Service,
	userService *user.Service,
	notifier OrderNotifier,
	tracking TrackingCodes,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		orderService: orderService,
		userService:  userService,
		notifier:     notifier,
		tracking:     tracking,
		logger:       logger,
	}
}

// UpdateOrderStatusRequest is the body of PUT /admin/orders/:id/status
type UpdateOrderStatusRequest struct {
	Status  order.OrderStatus `json:"status" binding:"required"`
	Comment string            `json:"comment"`
}

// SetFlagRequest is the body of the user active and staff toggles
type SetFlagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

// ListOrders handles GET /admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.orderService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status. The customer is
// emailed about the new status when possible.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	updated, err := h.orderService.UpdateStatus(ctx, id, req.Status, req.Comment, middleware.UserIDPtr(c))
	if err != nil {
		respondError(c, err, "Order not found")
		return
	}

	snap := h.orderService.Snapshot(ctx, updated)
	if err := h.notifier.SendOrderStatusUpdateEmail(ctx, snap, h.tracking.TrackingURL(snap.OrderNumber)); err != nil {
		h.logger.WithError(err).WithField("order_id", updated.ID).Warn("Failed to send order status email")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    snap,
	})
}

// UpdatePaymentStatus handles PUT /admin/orders/:id/payment-status
func (h *AdminHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req order.PaymentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment status updated successfully",
		"data":    h.orderService.Snapshot(c.Request.Context(), updated),
	})
}

// RecalculateOrder handles POST /admin/orders/:id/recalculate
func (h *AdminHandler) RecalculateOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	updated, err := h.orderService.Recalculate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order totals recalculated",
		"data":    h.orderService.Snapshot(c.Request.Context(), updated),
	})
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var req user.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.userService.ListUsers(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to retrieve users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Users retrieved successfully",
		"data":    response,
	})
}

// SetUserActive handles PUT /admin/users/:id/active
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	h.setFlag(c, h.userService.SetActive, "User status updated successfully")
}

// SetUserStaff handles PUT /admin/users/:id/staff
func (h *AdminHandler) SetUserStaff(c *gin.Context) {
	h.setFlag(c, h.userService.SetStaff, "User role updated successfully")
}

type flagSetter func(ctx context.Context, userID uint, value bool, actorID uint) error

func (h *AdminHandler) setFlag(c *gin.Context, set flagSetter, message string) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SetFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	actorID, _ := middleware.GetUserIDFromContext(c)
	if err := set(c.Request.Context(), id, *req.Value, actorID); err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
