package email

import (
	"context"
	"errors"
	"testing"

	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/logger"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	from string
	to   []string
	msg  string
}

type recordingTransport struct {
	sent []sentMail
	err  error
}

func (t *recordingTransport) Send(_ context.Context, from string, to []string, msg []byte) error {
	t.sent = append(t.sent, sentMail{from: from, to: to, msg: string(msg)})
	return t.err
}

func newTestService(transport Transport) *EmailService {
	cfg := config.EmailConfig{FromEmail: "noreply@sipandsunshine.nl", FromName: "Sip and Sunshine"}
	restaurant := config.RestaurantConfig{SiteName: "Sip and Sunshine", Phone: "+31 20 123 4567"}
	return NewEmailServiceWithTransport(cfg, restaurant, transport, logger.Discard())
}

func snapshot() order.Snapshot {
	return order.Snapshot{
		OrderNumber: "SIP-000007",
		Status:      order.OrderStatusPending,
		GuestName:   "Anna",
		GuestEmail:  "anna@example.com",
		Subtotal:    money.MustParse("30.00"),
		Tax:         money.MustParse("6.30"),
		Total:       money.MustParse("36.30"),
		Items: []order.ItemSnapshot{
			{ItemName: "Burger", Quantity: 2, Subtotal: money.MustParse("25.00")},
		},
	}
}

func TestSendOrderConfirmationEmail(t *testing.T) {
	transport := &recordingTransport{}
	svc := newTestService(transport)

	err := svc.SendOrderConfirmationEmail(context.Background(), snapshot(), "http://localhost:8080/api/v1/orders/track/SIP-000007")
	require.NoError(t, err)
	require.Len(t, transport.sent, 1)

	mail := transport.sent[0]
	assert.Equal(t, "noreply@sipandsunshine.nl", mail.from)
	assert.Equal(t, []string{"anna@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Order Confirmation - SIP-000007\r\n")
	assert.Contains(t, mail.msg, "2 &times; Burger")
	assert.Contains(t, mail.msg, "&euro; 36.30")
	assert.NotContains(t, mail.msg, "Delivery</td>")
	assert.Contains(t, mail.msg, `href="http://localhost:8080/api/v1/orders/track/SIP-000007"`)
}

func TestSkipsWithoutGuestEmailOrTransport(t *testing.T) {
	transport := &recordingTransport{}
	svc := newTestService(transport)

	snap := snapshot()
	snap.GuestEmail = ""
	require.NoError(t, svc.SendOrderConfirmationEmail(context.Background(), snap, ""))
	assert.Empty(t, transport.sent)

	disabled := newTestService(nil)
	assert.False(t, disabled.Enabled())
	assert.NoError(t, disabled.SendOrderConfirmationEmail(context.Background(), snapshot(), ""))
}

func TestSendOrderStatusUpdateEmail(t *testing.T) {
	transport := &recordingTransport{}
	svc := newTestService(transport)

	snap := snapshot()
	snap.Status = order.OrderStatusOutForDelivery
	require.NoError(t, svc.SendOrderStatusUpdateEmail(context.Background(), snap, "http://x/track"))
	require.Len(t, transport.sent, 1)
	assert.Contains(t, transport.sent[0].msg, "is now <strong>out for delivery</strong>")

	snap.Status = order.OrderStatusPending
	require.NoError(t, svc.SendOrderStatusUpdateEmail(context.Background(), snap, "http://x/track"))
	assert.Len(t, transport.sent, 1, "pending has no notification")
}

func TestTransportErrorIsReturned(t *testing.T) {
	svc := newTestService(&recordingTransport{err: errors.New("connection refused")})

	err := svc.SendOrderConfirmationEmail(context.Background(), snapshot(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
