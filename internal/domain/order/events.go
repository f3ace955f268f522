// internal/domain/order/events.go
package order

import (
	"context"
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
)

// Event types published on the order event stream
const (
	EventOrderCreated        = "order.created"
	EventStatusChanged       = "order.status_changed"
	EventPaymentStatusChange = "order.payment_status_changed"
)

// Event describes a change to an order for downstream consumers such as
// the kitchen display.
type Event struct {
	Type          string        `json:"type"`
	OrderID       uint          `json:"order_id"`
	Reference     string        `json:"reference"`
	OrderType     string        `json:"order_type"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Total         money.Amount  `json:"total"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// EventPublisher delivers order events. Publishing happens after commit and
// is best-effort: a failure is logged, never rolled back.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

// Publish implements EventPublisher
func (NoopPublisher) Publish(context.Context, Event) error { return nil }
