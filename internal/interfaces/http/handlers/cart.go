// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/cart"
	"github.com/sip-sunshine/restaurant-backend/internal/interfaces/http/middleware"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddToCartRequest is the body of POST /cart/items
type AddToCartRequest struct {
	ID       uint              `json:"id" binding:"required"`
	Name     string            `json:"name"`
	Price    money.Amount      `json:"price"`
	Quantity int               `json:"quantity"`
	Metadata map[string]string `json:"metadata"`
}

// CartResponse is a cart with its computed totals
type CartResponse struct {
	*cart.Cart
	Totals cart.Totals `json:"totals"`
}

func newCartResponse(c *cart.Cart) CartResponse {
	return CartResponse{Cart: c, Totals: cart.Total(c)}
}

func (h *CartHandler) owner(c *gin.Context) cart.Owner {
	return cart.Owner{
		UserID:    middleware.UserIDPtr(c),
		SessionID: getOrCreateSessionID(c),
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	current, err := h.cartService.Get(c.Request.Context(), h.owner(c))
	if err != nil {
		respondError(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    newCartResponse(current),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	updated, err := h.cartService.Add(c.Request.Context(), h.owner(c), cart.Entry{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		Metadata: req.Metadata,
	})
	if err != nil {
		respondError(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    newCartResponse(updated),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	updated, err := h.cartService.Remove(c.Request.Context(), h.owner(c), id)
	if err != nil {
		respondError(c, err, "Failed to remove item from cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    newCartResponse(updated),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), h.owner(c)); err != nil {
		respondError(c, err, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}
