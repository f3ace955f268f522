// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"strings"

	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
	"github.com/sirupsen/logrus"
)

// EmailService sends guest notifications. Without a transport every send is
// a logged no-op.
type EmailService struct {
	config     config.EmailConfig
	restaurant config.RestaurantConfig
	transport  Transport
	templates  *template.Template
	logger     *logrus.Logger
}

// NewEmailService creates an email service that relays over SMTP when
// SMTP_HOST is set.
func NewEmailService(cfg config.EmailConfig, restaurant config.RestaurantConfig, logger *logrus.Logger) *EmailService {
	var transport Transport
	if cfg.SMTPHost != "" {
		transport = NewSMTPTransport(cfg)
	}
	return NewEmailServiceWithTransport(cfg, restaurant, transport, logger)
}

// NewEmailServiceWithTransport creates an email service over an explicit
// transport
func NewEmailServiceWithTransport(cfg config.EmailConfig, restaurant config.RestaurantConfig, transport Transport, logger *logrus.Logger) *EmailService {
	tmpl := template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate))
	template.Must(tmpl.New("order_status_update").Parse(orderStatusUpdateTemplate))

	return &EmailService{
		config:     cfg,
		restaurant: restaurant,
		transport:  transport,
		templates:  tmpl,
		logger:     logger,
	}
}

// Enabled reports whether a transport is configured
func (s *EmailService) Enabled() bool {
	return s.transport != nil
}

// SendEmail builds and delivers email
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	if !s.Enabled() {
		s.logger.WithFields(logrus.Fields{
			"type": email.Type,
			"to":   email.To,
		}).Debug("Email transport not configured, skipping")
		return nil
	}

	if err := s.transport.Send(ctx, s.config.FromEmail, email.To, s.buildMessage(email)); err != nil {
		return fmt.Errorf("failed to send %s email: %w", email.Type, err)
	}

	s.logger.WithFields(logrus.Fields{
		"type": email.Type,
		"to":   email.To,
	}).Info("Email sent")
	return nil
}

// SendOrderConfirmationEmail mails the order summary to the guest. Orders
// without a guest email are skipped.
func (s *EmailService) SendOrderConfirmationEmail(ctx context.Context, snap order.Snapshot, trackingURL string) error {
	if snap.GuestEmail == "" {
		return nil
	}

	data := OrderConfirmationData{
		EmailTemplateData: s.baseData(snap.GuestName),
		Order:             snap,
		TrackingURL:       trackingURL,
	}

	htmlContent, err := s.renderTemplate("order_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{snap.GuestEmail},
		Subject:     fmt.Sprintf("Order Confirmation - %s", snap.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
	})
}

// SendOrderStatusUpdateEmail tells the guest about a status change
func (s *EmailService) SendOrderStatusUpdateEmail(ctx context.Context, snap order.Snapshot, trackingURL string) error {
	if snap.GuestEmail == "" {
		return nil
	}
	message, ok := statusMessages[snap.Status]
	if !ok {
		return nil
	}

	data := OrderStatusUpdateData{
		EmailTemplateData: s.baseData(snap.GuestName),
		OrderNumber:       snap.OrderNumber,
		Status:            strings.ReplaceAll(string(snap.Status), "_", " "),
		StatusMessage:     message,
		TrackingURL:       trackingURL,
	}

	htmlContent, err := s.renderTemplate("order_status_update", data)
	if err != nil {
		return fmt.Errorf("failed to render order status update template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{snap.GuestEmail},
		Subject:     fmt.Sprintf("Order Update - %s", snap.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderStatusUpdate,
	})
}

func (s *EmailService) baseData(guestName string) EmailTemplateData {
	return GetBaseTemplateData(s.restaurant.SiteName, s.restaurant.PublicBaseURL, s.restaurant.Phone, guestName)
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

func (s *EmailService) buildMessage(email *Email) []byte {
	from := s.config.FromEmail
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.config.FromName), s.config.FromEmail)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(email.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(email.HTMLContent)
	return msg.Bytes()
}

const orderConfirmationTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.SiteName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #d97706;">{{.SiteName}}</h1>
        <p>Hello {{.GuestName}},</p>
        <p>Thank you for your order <strong>{{.Order.OrderNumber}}</strong>.</p>
        <table style="width: 100%; border-collapse: collapse;">
            {{range .Order.Items}}
            <tr><td>{{.Quantity}} &times; {{.ItemName}}</td><td style="text-align: right;">&euro; {{.Subtotal}}</td></tr>
            {{end}}
            <tr><td>Subtotal</td><td style="text-align: right;">&euro; {{.Order.Subtotal}}</td></tr>
            <tr><td>VAT 21%</td><td style="text-align: right;">&euro; {{.Order.Tax}}</td></tr>
            {{if .Order.DeliveryCharge}}<tr><td>Delivery</td><td style="text-align: right;">&euro; {{.Order.DeliveryCharge}}</td></tr>{{end}}
            <tr><td><strong>Total</strong></td><td style="text-align: right;"><strong>&euro; {{.Order.Total}}</strong></td></tr>
        </table>
        {{with .Order.EstimatedCompletionTime}}<p>Estimated ready: {{.Format "15:04"}}</p>{{end}}
        <p><a href="{{.TrackingURL}}">Track your order</a></p>
        {{if .Phone}}<p>Questions? Call us at {{.Phone}}.</p>{{end}}
        <hr>
        <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}</p>
    </div>
</body>
</html>`

const orderStatusUpdateTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.SiteName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #d97706;">{{.SiteName}}</h1>
        <p>Hello {{.GuestName}},</p>
        <p>Order <strong>{{.OrderNumber}}</strong> is now <strong>{{.Status}}</strong>.</p>
        <p>{{.StatusMessage}}</p>
        <p><a href="{{.TrackingURL}}">Track your order</a></p>
        <hr>
        <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}</p>
    </div>
</body>
</html>`
