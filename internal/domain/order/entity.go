// internal/domain/order/entity.go
package order

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/domain/pricing"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/settings"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
	"gorm.io/datatypes"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusUnpaid    PaymentStatus = "unpaid"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentMethod is how the guest intends to pay
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPayPal PaymentMethod = "paypal"
)

// PaymentMethods lists the accepted payment methods
var PaymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodStripe, PaymentMethodPayPal}

// IsValid reports whether m is an accepted payment method
func (m PaymentMethod) IsValid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// InitialPaymentStatus is unpaid for cash and pending (awaiting the
// gateway) for everything else.
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m == PaymentMethodCash {
		return PaymentStatusUnpaid
	}
	return PaymentStatusPending
}

// Order represents the order entity
type Order struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    *uint        `gorm:"index" json:"user_id"` // Nullable for guest orders
	OrderType pricing.Mode `gorm:"not null;size:20;index" json:"order_type"`
	Status    OrderStatus  `gorm:"not null;size:20;index" json:"status"`

	// Guest contact
	GuestName  string `gorm:"not null;size:200" json:"guest_name"`
	GuestEmail string `gorm:"size:255" json:"guest_email"`
	GuestPhone string `gorm:"size:20" json:"guest_phone"`

	// Seated
	TableNumber *int `json:"table_number,omitempty"`

	// Pickup
	PreferredPickupTime *time.Time `json:"preferred_pickup_time,omitempty"`

	// Delivery
	DeliveryAddress      string `gorm:"size:300" json:"delivery_address,omitempty"`
	DeliveryCity         string `gorm:"size:100" json:"delivery_city,omitempty"`
	DeliveryPostalCode   string `gorm:"size:20" json:"delivery_postal_code,omitempty"`
	DeliveryCountry      string `gorm:"size:100" json:"delivery_country,omitempty"`
	DeliveryInstructions string `gorm:"type:text" json:"delivery_instructions,omitempty"`

	// Financial information, all in cents
	Subtotal       money.Amount `gorm:"not null" json:"subtotal"`
	Tax            money.Amount `gorm:"not null" json:"tax"`
	DeliveryCharge money.Amount `gorm:"not null" json:"delivery_charge"`
	Total          money.Amount `gorm:"not null" json:"total"`

	// Payment
	PaymentMethod  PaymentMethod     `gorm:"not null;size:20" json:"payment_method"`
	PaymentStatus  PaymentStatus     `gorm:"not null;size:20;index" json:"payment_status"`
	PaymentID      string            `gorm:"size:500" json:"payment_id,omitempty"`
	PaymentDetails datatypes.JSONMap `json:"payment_details,omitempty"`

	SpecialRequests string `gorm:"type:text" json:"special_requests"`

	// Timing
	PromisedTime *time.Time `json:"promised_time,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relationships
	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem is a price-frozen copy of one menu item within an order. The
// menu reference is nullable so history survives menu deletions.
type OrderItem struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	OrderID             uint         `gorm:"not null;index" json:"order_id"`
	MenuItemID          *uint        `gorm:"index" json:"menu_item_id"`
	ItemName            string       `gorm:"not null;size:200" json:"item_name"`
	ItemPrice           money.Amount `gorm:"not null" json:"item_price"` // Unit price in cents
	Quantity            int          `gorm:"not null" json:"quantity"`
	SpecialInstructions string       `gorm:"type:text" json:"special_instructions"`
	CreatedAt           time.Time    `json:"created_at"`
}

// Subtotal returns unit price times quantity
func (i OrderItem) Subtotal() money.Amount {
	return i.ItemPrice.Times(i.Quantity)
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"not null;size:20" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedBy *uint       `gorm:"index" json:"created_by"` // Staff user ID, nil for the system
	CreatedAt time.Time   `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// Business methods for Order

var validStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:          {OrderStatusOutForDelivery, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusCompleted, OrderStatusCancelled},
}

var validPaymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusUnpaid:    {PaymentStatusPaid, PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusPending:   {PaymentStatusPaid, PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusFailed:    {PaymentStatusPending},
	PaymentStatusPaid:      {PaymentStatusRefunded},
	PaymentStatusCompleted: {PaymentStatusRefunded},
}

// IsValidStatus reports whether s is a known order status
func IsValidStatus(s OrderStatus) bool {
	_, nonTerminal := validStatusTransitions[s]
	return nonTerminal || s == OrderStatusCompleted || s == OrderStatusCancelled
}

// IsValidPaymentStatus reports whether s is a known payment status
func IsValidPaymentStatus(s PaymentStatus) bool {
	_, ok := validPaymentTransitions[s]
	return ok || s == PaymentStatusRefunded
}

// CanTransitionTo checks the status state machine. Out for delivery only
// exists for delivery orders.
func (o *Order) CanTransitionTo(to OrderStatus) bool {
	if to == OrderStatusOutForDelivery && o.OrderType != pricing.ModeDelivery {
		return false
	}
	for _, status := range validStatusTransitions[o.Status] {
		if status == to {
			return true
		}
	}
	return false
}

// CanPaymentTransitionTo checks the payment status state machine
func (o *Order) CanPaymentTransitionTo(to PaymentStatus) bool {
	for _, status := range validPaymentTransitions[o.PaymentStatus] {
		if status == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order is completed or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// IsPaid is true once the payment is paid or completed
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid || o.PaymentStatus == PaymentStatusCompleted
}

// EstimatedCompletion derives when the order should be ready. A promised
// time always wins; seated orders have no estimate. ds supplies the
// configured durations; nil means the defaults.
func (o *Order) EstimatedCompletion(ds *settings.DeliverySettings) *time.Time {
	if o.PromisedTime != nil {
		return o.PromisedTime
	}
	if o.CreatedAt.IsZero() {
		return nil
	}
	if ds == nil {
		d := settings.Defaults()
		ds = &d
	}

	var minutes int
	switch o.OrderType {
	case pricing.ModePickup:
		if o.PreferredPickupTime != nil {
			return o.PreferredPickupTime
		}
		minutes = ds.EstimatedPickupMinutes
	case pricing.ModeDelivery:
		minutes = ds.EstimatedDeliveryMinutes
	default:
		return nil
	}

	t := o.CreatedAt.Add(time.Duration(minutes) * time.Minute)
	return &t
}

// Lines returns the items as pricing lines
func (o *Order) Lines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, pricing.Line{UnitPrice: item.ItemPrice, Quantity: item.Quantity})
	}
	return lines
}

// ItemCount returns the number of order lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// Reference renders the human order number, e.g. SIP-000015. The same id
// always renders the same reference.
func Reference(prefix string, id uint) string {
	return fmt.Sprintf("%s-%06d", prefix, id)
}

var digits = regexp.MustCompile(`^\d+$`)

// ParseReference accepts either a bare order id or a prefixed reference,
// case-insensitively.
func ParseReference(prefix, ref string) (uint, error) {
	ref = strings.TrimSpace(ref)
	if !digits.MatchString(ref) {
		re := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(prefix) + `-(\d+)$`)
		m := re.FindStringSubmatch(ref)
		if m == nil {
			return 0, apperrors.Validation("reference", "Invalid order reference: %s", ref)
		}
		ref = m[1]
	}

	id, err := strconv.ParseUint(ref, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("reference", "Invalid order reference: %s", ref)
	}
	return uint(id), nil
}
