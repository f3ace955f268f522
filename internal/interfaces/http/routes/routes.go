// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sip-sunshine/restaurant-backend/internal/interfaces/http/handlers"
	"github.com/sip-sunshine/restaurant-backend/internal/interfaces/http/middleware"
)

// Handlers groups every handler the API serves
type Handlers struct {
	Settings    *handlers.SettingsHandler
	Menu        *handlers.MenuHandler
	Cart        *handlers.CartHandler
	Order       *handlers.OrderHandler
	Chatbot     *handlers.ChatbotHandler
	Auth        *handlers.AuthHandler
	Profile     *handlers.ProfileHandler
	Reservation *handlers.ReservationHandler
	Contact     *handlers.ContactHandler
	Admin       *handlers.AdminHandler
}

// SetupSettingsRoutes sets up public settings routes
func SetupSettingsRoutes(rg *gin.RouterGroup, h *handlers.SettingsHandler) {
	settings := rg.Group("/settings")
	{
		settings.GET("/delivery", h.GetDeliverySettings)
		settings.GET("/payment-methods", h.GetPaymentMethods)
	}
}

// SetupMenuRoutes sets up menu routes
func SetupMenuRoutes(rg *gin.RouterGroup, h *handlers.MenuHandler) {
	menu := rg.Group("/menu")
	{
		menu.GET("", h.ListMenu)
		menu.GET("/:id", h.GetMenuItem)
	}
}

// SetupCartRoutes sets up cart routes. Guests are identified by session,
// customers by token.
func SetupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler, tokens middleware.TokenValidator) {
	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(tokens))
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddToCart)
		cart.DELETE("/items/:id", h.RemoveFromCart)
		cart.DELETE("", h.ClearCart)
	}
}

// SetupOrderRoutes sets up public order routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *handlers.OrderHandler, tokens middleware.TokenValidator) {
	orders := rg.Group("/orders")
	orders.Use(middleware.OptionalAuthMiddleware(tokens))
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/track/:reference", h.TrackOrder)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/qr", h.GetOrderQR)
		orders.GET("/:id/receipt", h.GetOrderReceipt)
	}
}

// SetupChatbotRoutes sets up the chatbot route
func SetupChatbotRoutes(rg *gin.RouterGroup, h *handlers.ChatbotHandler, tokens middleware.TokenValidator) {
	rg.POST("/chatbot", middleware.OptionalAuthMiddleware(tokens), h.Chat)
}

// SetupInquiryRoutes sets up the public reservation and contact forms
func SetupInquiryRoutes(rg *gin.RouterGroup, reservations *handlers.ReservationHandler, contact *handlers.ContactHandler) {
	rg.POST("/reservations", reservations.CreateReservation)
	rg.POST("/contact", contact.SendMessage)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *handlers.AuthHandler) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
	}
}

// SetupProfileRoutes sets up the signed-in customer's routes
func SetupProfileRoutes(rg *gin.RouterGroup, h *handlers.ProfileHandler, tokens middleware.TokenValidator) {
	profile := rg.Group("/profile")
	profile.Use(middleware.AuthMiddleware(tokens))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/orders", h.GetOrders)
	}
}

// SetupAdminRoutes sets up staff-only routes
func SetupAdminRoutes(rg *gin.RouterGroup, h Handlers, tokens middleware.TokenValidator) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokens))
	admin.Use(middleware.StaffMiddleware())
	{
		orders := admin.Group("/orders")
		{
			orders.GET("", h.Admin.ListOrders)
			orders.PUT("/:id/status", h.Admin.UpdateOrderStatus)
			orders.PUT("/:id/payment-status", h.Admin.UpdatePaymentStatus)
			orders.POST("/:id/recalculate", h.Admin.RecalculateOrder)
		}

		users := admin.Group("/users")
		{
			users.GET("", h.Admin.ListUsers)
			users.PUT("/:id/active", h.Admin.SetUserActive)
			users.PUT("/:id/staff", h.Admin.SetUserStaff)
		}

		reservations := admin.Group("/reservations")
		{
			reservations.GET("", h.Reservation.ListReservations)
			reservations.PUT("/:id/status", h.Reservation.UpdateReservationStatus)
		}

		messages := admin.Group("/contact-messages")
		{
			messages.GET("", h.Contact.ListMessages)
			messages.PUT("/:id/read", h.Contact.MarkRead)
		}

		admin.PUT("/settings/delivery", h.Settings.UpdateDeliverySettings)
	}
}

// SetupRoutes sets up all API routes
func SetupRoutes(rg *gin.RouterGroup, h Handlers, tokens middleware.TokenValidator) {
	SetupSettingsRoutes(rg, h.Settings)
	SetupMenuRoutes(rg, h.Menu)
	SetupCartRoutes(rg, h.Cart, tokens)
	SetupOrderRoutes(rg, h.Order, tokens)
	SetupChatbotRoutes(rg, h.Chatbot, tokens)
	SetupInquiryRoutes(rg, h.Reservation, h.Contact)
	SetupAuthRoutes(rg, h.Auth)
	SetupProfileRoutes(rg, h.Profile, tokens)
	SetupAdminRoutes(rg, h, tokens)
}
