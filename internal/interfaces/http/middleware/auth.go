// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	ContextUserID  = "user_id"
	ContextEmail   = "user_email"
	ContextIsStaff = "is_staff"
)

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

func authenticate(c *gin.Context, validator TokenValidator) (*auth.Claims, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "Authorization header required"
	}

	tokenString := auth.ExtractTokenFromHeader(authHeader)
	if tokenString == "" {
		return nil, "Invalid authorization header format"
	}

	claims, err := validator.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, "Invalid or expired token"
	}
	return claims, ""
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextIsStaff, claims.IsStaff)
}

// AuthMiddleware rejects requests without a valid access token
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, problem := authenticate(c, validator)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": problem,
			})
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the user when a valid token is present
// and lets anonymous requests through otherwise
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _ := authenticate(c, validator); claims != nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// StaffMiddleware ensures the user is staff. It must run after AuthMiddleware.
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserIDFromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		if !IsStaffFromContext(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Staff access required",
			})
			return
		}

		c.Next()
	}
}

// GetUserIDFromContext extracts user ID from gin context
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok && id > 0
}

// UserIDPtr returns the authenticated user's ID, or nil for guests
func UserIDPtr(c *gin.Context) *uint {
	if id, ok := GetUserIDFromContext(c); ok {
		return &id
	}
	return nil
}

// IsStaffFromContext checks if user is staff from gin context
func IsStaffFromContext(c *gin.Context) bool {
	return c.GetBool(ContextIsStaff)
}
