package pdf

import (
	"errors"
	"testing"
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubQR struct {
	png []byte
	err error
}

func (q stubQR) Generate(string) ([]byte, error) { return q.png, q.err }

func snapshot() order.Snapshot {
	return order.Snapshot{
		ID:             15,
		OrderNumber:    "SIP-000015",
		OrderType:      "delivery",
		GuestName:      "Anna <b>",
		PaymentMethod:  order.PaymentMethodCash,
		PaymentStatus:  order.PaymentStatusUnpaid,
		Subtotal:       money.MustParse("12.50"),
		Tax:            money.MustParse("2.63"),
		DeliveryCharge: money.MustParse("2.50"),
		Total:          money.MustParse("17.63"),
		CreatedAt:      time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		Items: []order.ItemSnapshot{
			{ItemName: "Burger", ItemPrice: money.MustParse("12.50"), Quantity: 1, Subtotal: money.MustParse("12.50")},
		},
	}
}

func TestRenderHTML(t *testing.T) {
	svc := NewService(config.PDFConfig{}, config.RestaurantConfig{SiteName: "Sip and Sunshine", TimeZone: "Europe/Amsterdam"}, stubQR{png: []byte("png")})

	html, err := svc.RenderHTML(snapshot())
	require.NoError(t, err)

	assert.Contains(t, html, "Order SIP-000015</strong> (Delivery)")
	assert.Contains(t, html, "Placed 01-06-2026 12:00")
	assert.Contains(t, html, "&euro; 17.63")
	assert.Contains(t, html, "Delivery</td>")
	assert.Contains(t, html, "data:image/png;base64,cG5n")
	assert.Contains(t, html, "Anna &lt;b&gt;")
}

func TestRenderHTMLWithoutQR(t *testing.T) {
	svc := NewService(config.PDFConfig{}, config.RestaurantConfig{SiteName: "Sip and Sunshine"}, nil)

	snap := snapshot()
	snap.DeliveryCharge = 0
	html, err := svc.RenderHTML(snap)
	require.NoError(t, err)
	assert.NotContains(t, html, "Scan to track")
	assert.NotContains(t, html, "Delivery</td>")

	svc = NewService(config.PDFConfig{}, config.RestaurantConfig{}, stubQR{err: errors.New("boom")})
	_, err = svc.RenderHTML(snap)
	assert.Error(t, err)
}
