// internal/interfaces/http/handlers/menu.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/catalog"
)

// MenuHandler handles menu endpoints
type MenuHandler struct {
	catalogService *catalog.Service
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(catalogService *catalog.Service) *MenuHandler {
	return &MenuHandler{catalogService: catalogService}
}

// ListMenu handles GET /menu
func (h *MenuHandler) ListMenu(c *gin.Context) {
	items, err := h.catalogService.List(c.Request.Context(), catalog.Category(c.Query("category")))
	if err != nil {
		respondError(c, err, "Failed to retrieve menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu retrieved successfully",
		"data":    items,
	})
}

// GetMenuItem handles GET /menu/:id
func (h *MenuHandler) GetMenuItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.catalogService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Menu item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item retrieved successfully",
		"data":    item,
	})
}
