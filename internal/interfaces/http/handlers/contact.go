// internal/interfaces/http/handlers/contact.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/contact"
)

// ContactHandler handles contact form endpoints
type ContactHandler struct {
	contactService *contact.Service
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *contact.Service) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// SendMessage handles POST /contact
func (h *ContactHandler) SendMessage(c *gin.Context) {
	var req contact.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if _, err := h.contactService.Create(c.Request.Context(), &req); err != nil {
		respondError(c, err, "Error sending message. Please try again.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Your message has been sent successfully!",
	})
}

// ListMessages handles GET /admin/contact-messages
func (h *ContactHandler) ListMessages(c *gin.Context) {
	var req contact.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.contactService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to retrieve messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Messages retrieved successfully",
		"data":    response,
	})
}

// MarkRead handles PUT /admin/contact-messages/:id/read
func (h *ContactHandler) MarkRead(c *gin.Context) {
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

	if err := h.contactService.SetRead(c.Request.Context(), id, *req.Value); err != nil {
		respondError(c, err, "Message not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Message updated successfully",
	})
}
