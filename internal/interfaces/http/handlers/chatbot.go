// internal/interfaces/http/handlers/chatbot.go
package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/chatbot"
	"github.com/sip-sunshine/restaurant-backend/internal/interfaces/http/middleware"
)

// ChatbotHandler handles the FAQ chatbot endpoint
type ChatbotHandler struct {
	chatbotService *chatbot.Service
	maxChars       int
}

// NewChatbotHandler creates a new chatbot handler. Messages longer than
// maxChars characters are rejected.
func NewChatbotHandler(chatbotService *chatbot.Service, maxChars int) *ChatbotHandler {
	return &ChatbotHandler{
		chatbotService: chatbotService,
		maxChars:       maxChars,
	}
}

// ChatRequest is the body of POST /chatbot
type ChatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /chatbot
func (h *ChatbotHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid JSON",
		})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Message is required",
		})
		return
	}
	if utf8.RuneCountInString(message) > h.maxChars {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Message too long",
		})
		return
	}

	reply, intent, confidence := h.chatbotService.Answer(c.Request.Context(), message)
	if intent == chatbot.IntentTracking {
		if _, ok := middleware.GetUserIDFromContext(c); ok {
			reply += chatbot.TrackingTip
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"reply":      reply,
		"intent":     intent,
		"confidence": confidence,
	})
}
