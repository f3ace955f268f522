// internal/interfaces/http/handlers/settings.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/settings"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
)

// SettingsHandler handles delivery and payment settings endpoints
type SettingsHandler struct {
	settingsService *settings.Service
	location        *time.Location
}

// NewSettingsHandler creates a new settings handler. loc is the restaurant's
// time zone, used for the open-now flags.
func NewSettingsHandler(settingsService *settings.Service, loc *time.Location) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		location:        loc,
	}
}

// GetDeliverySettings handles GET /settings/delivery
func (h *SettingsHandler) GetDeliverySettings(c *gin.Context) {
	ds, err := h.settingsService.Lookup(c.Request.Context())
	if err != nil {
		if !apperrors.IsNotFound(err) {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to load delivery settings",
			})
			return
		}
		defaults := settings.Defaults()
		ds = &defaults
	}

	c.JSON(http.StatusOK, settings.ToResponse(*ds, time.Now().In(h.location)))
}

// GetPaymentMethods handles GET /settings/payment-methods
func (h *SettingsHandler) GetPaymentMethods(c *gin.Context) {
	methods, err := h.settingsService.EnabledPaymentMethods(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load payment methods")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_methods": methods,
	})
}

// UpdateDeliverySettings handles PUT /admin/settings/delivery
func (h *SettingsHandler) UpdateDeliverySettings(c *gin.Context) {
	var ds settings.DeliverySettings
	if err := c.ShouldBindJSON(&ds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.settingsService.Save(c.Request.Context(), &ds); err != nil {
		respondError(c, err, "Failed to save delivery settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery settings saved successfully",
		"data":    settings.ToResponse(ds, time.Now().In(h.location)),
	})
}
