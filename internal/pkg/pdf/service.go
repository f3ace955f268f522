// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
)

// QRSource renders the tracking QR code for an order reference
type QRSource interface {
	Generate(reference string) ([]byte, error)
}

// Service handles receipt PDF generation
type Service struct {
	restaurant config.RestaurantConfig
	qr         QRSource
	tmpl       *template.Template
}

// NewService creates a new PDF service. qr may be nil to leave the tracking
// code off the receipt.
func NewService(cfg config.PDFConfig, restaurant config.RestaurantConfig, qr QRSource) *Service {
	if cfg.WkhtmltopdfPath != "" {
		wkhtmltopdf.SetPath(cfg.WkhtmltopdfPath)
	}
	return &Service{
		restaurant: restaurant,
		qr:         qr,
		tmpl:       template.Must(template.New("receipt").Parse(receiptTemplate)),
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	Order       order.Snapshot
	OrderType   string
	PrintedAt   string
	CreatedAt   string
	Restaurant  config.RestaurantConfig
	TrackingQR  template.URL
	HasDelivery bool
}

var orderTypeLabels = map[string]string{
	"seated":   "Dine-in",
	"pickup":   "Pickup",
	"delivery": "Delivery",
}

// RenderHTML renders the receipt page for snap
func (s *Service) RenderHTML(snap order.Snapshot) (string, error) {
	loc := s.restaurant.Location()
	data := ReceiptData{
		Order:       snap,
		OrderType:   orderTypeLabels[snap.OrderType],
		PrintedAt:   time.Now().In(loc).Format("02-01-2006 15:04"),
		CreatedAt:   snap.CreatedAt.In(loc).Format("02-01-2006 15:04"),
		Restaurant:  s.restaurant,
		HasDelivery: snap.DeliveryCharge > 0,
	}

	if s.qr != nil {
		png, err := s.qr.Generate(snap.OrderNumber)
		if err != nil {
			return "", err
		}
		data.TrackingQR = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateReceipt renders snap to a PDF with wkhtmltopdf
func (s *Service) GenerateReceipt(snap order.Snapshot) ([]byte, error) {
	htmlContent, err := s.RenderHTML(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA5)
	pdfg.Title.Set("Receipt " + snap.OrderNumber)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return pdfg.Bytes(), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.Order.OrderNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #eee; padding-bottom: 12px; margin-bottom: 20px; }
        .title { font-size: 24px; font-weight: bold; color: #d97706; }
        .items { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
        .items th, .items td { border-bottom: 1px solid #ddd; padding: 8px 4px; text-align: left; }
        .items .num { text-align: right; }
        .totals { width: 100%; }
        .totals td { padding: 4px; }
        .totals .label { text-align: right; }
        .totals .grand { font-weight: bold; font-size: 16px; border-top: 2px solid #333; }
        .qr { text-align: center; margin-top: 24px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="title">{{.Restaurant.SiteName}}</div>
        {{if .Restaurant.Address}}<div>{{.Restaurant.Address}}</div>{{end}}
        {{if .Restaurant.Phone}}<div>{{.Restaurant.Phone}}</div>{{end}}
    </div>

    <p>
        <strong>Order {{.Order.OrderNumber}}</strong> ({{.OrderType}})<br>
        Placed {{.CreatedAt}} by {{.Order.GuestName}}<br>
        {{with .Order.TableNumber}}Table {{.}}<br>{{end}}
        {{if .Order.DeliveryAddress}}{{.Order.DeliveryAddress}}, {{.Order.DeliveryPostalCode}} {{.Order.DeliveryCity}}<br>{{end}}
        Payment: {{.Order.PaymentMethod}} ({{.Order.PaymentStatus}})
    </p>

    <table class="items">
        <tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
        {{range .Order.Items}}
        <tr>
            <td>{{.ItemName}}{{if .SpecialInstructions}}<br><small>{{.SpecialInstructions}}</small>{{end}}</td>
            <td class="num">{{.Quantity}}</td>
            <td class="num">&euro; {{.ItemPrice}}</td>
            <td class="num">&euro; {{.Subtotal}}</td>
        </tr>
        {{end}}
    </table>

    <table class="totals">
        <tr><td class="label">Subtotal</td><td class="num">&euro; {{.Order.Subtotal}}</td></tr>
        <tr><td class="label">VAT 21%</td><td class="num">&euro; {{.Order.Tax}}</td></tr>
        {{if .HasDelivery}}<tr><td class="label">Delivery</td><td class="num">&euro; {{.Order.DeliveryCharge}}</td></tr>{{end}}
        <tr class="grand"><td class="label">Total</td><td class="num">&euro; {{.Order.Total}}</td></tr>
    </table>

    {{if .TrackingQR}}
    <div class="qr">
        <img src="{{.TrackingQR}}" width="160" height="160" alt="Track your order"><br>
        <small>Scan to track your order</small>
    </div>
    {{end}}

    <p><small>Printed {{.PrintedAt}}</small></p>
</body>
</html>`
