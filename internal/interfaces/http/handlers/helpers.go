// internal/interfaces/http/handlers/helpers.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
)

// SessionHeader carries the guest session id for clients without cookies
const SessionHeader = "X-Session-ID"

const sessionCookie = "session_id"

// sessionFromRequest returns the caller's guest session id, if any
func sessionFromRequest(c *gin.Context) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	if id, err := c.Cookie(sessionCookie); err == nil {
		return id
	}
	return ""
}

// getOrCreateSessionID gets existing session ID or creates a new one
func getOrCreateSessionID(c *gin.Context) string {
	sessionID := sessionFromRequest(c)
	if sessionID == "" {
		sessionID = uuid.NewString()
		// 24 hours, matching the guest cart lifetime
		c.SetCookie(sessionCookie, sessionID, 86400, "/", "", false, true)
	}
	c.Header(SessionHeader, sessionID)
	return sessionID
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

// pageParams reads page and limit query parameters
func pageParams(c *gin.Context) (page, limit int) {
	page, limit = 1, 20
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}

// respondError maps domain errors to status codes. fallback is shown for
// unexpected errors instead of their text.
func respondError(c *gin.Context, err error, fallback string) {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ve.Message,
			"field": ve.Field,
		})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{
			"error": fallback,
		})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fallback,
		})
	}
}
