// internal/interfaces/http/handlers/reservation.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/reservation"
)

// ReservationHandler handles table reservation endpoints
type ReservationHandler struct {
	reservationService *reservation.Service
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *reservation.Service) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
	}
}

// UpdateReservationStatusRequest is the body of PUT /admin/reservations/:id/status
type UpdateReservationStatusRequest struct {
	Status reservation.Status `json:"status" binding:"required"`
}

// CreateReservation handles POST /reservations
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req reservation.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.reservationService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Error submitting reservation. Please try again.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Reservation request submitted successfully!",
		"data":    created,
	})
}

// ListReservations handles GET /admin/reservations
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	var req reservation.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.reservationService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to retrieve reservations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reservations retrieved successfully",
		"data":    response,
	})
}

// UpdateReservationStatus handles PUT /admin/reservations/:id/status
func (h *ReservationHandler) UpdateReservationStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.reservationService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err, "Reservation not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reservation status updated successfully",
		"data":    updated,
	})
}
