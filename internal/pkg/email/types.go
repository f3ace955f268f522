// internal/pkg/email/types.go
package email

import (
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeOrderStatusUpdate EmailType = "order_status_update"
)

// Email represents an email message
type Email struct {
	To          []string  `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"html_content"`
	Type        EmailType `json:"type"`
}

// EmailTemplateData contains common data for all email templates
type EmailTemplateData struct {
	SiteName  string `json:"site_name"`
	SiteURL   string `json:"site_url"`
	Phone     string `json:"phone"`
	GuestName string `json:"guest_name"`
	Year      int    `json:"year"`
}

// OrderConfirmationData contains data for order confirmation email
type OrderConfirmationData struct {
	EmailTemplateData
	Order       order.Snapshot `json:"order"`
	TrackingURL string         `json:"tracking_url"`
}

// OrderStatusUpdateData contains data for order status updates
type OrderStatusUpdateData struct {
	EmailTemplateData
	OrderNumber   string `json:"order_number"`
	Status        string `json:"status"`
	StatusMessage string `json:"status_message"`
	TrackingURL   string `json:"tracking_url"`
}

var statusMessages = map[order.OrderStatus]string{
	order.OrderStatusConfirmed:      "We have received your order and it has been confirmed.",
	order.OrderStatusPreparing:      "Our kitchen is preparing your order.",
	order.OrderStatusReady:          "Your order is ready.",
	order.OrderStatusOutForDelivery: "Your order is on its way.",
	order.OrderStatusCompleted:      "Your order is complete. Enjoy your meal!",
	order.OrderStatusCancelled:      "Your order has been cancelled. Please contact us if this is unexpected.",
}

// GetBaseTemplateData returns common template data
func GetBaseTemplateData(siteName, siteURL, phone, guestName string) EmailTemplateData {
	return EmailTemplateData{
		SiteName:  siteName,
		SiteURL:   siteURL,
		Phone:     phone,
		GuestName: guestName,
		Year:      time.Now().Year(),
	}
}
