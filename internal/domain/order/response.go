// internal/domain/order/response.go
package order

import (
	"context"
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/domain/settings"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
)

// ItemSnapshot is an order line as shown to guests
type ItemSnapshot struct {
	ID                  uint         `json:"id"`
	MenuItemID          *uint        `json:"menu_item_id"`
	ItemName            string       `json:"item_name"`
	ItemPrice           money.Amount `json:"item_price"`
	Quantity            int          `json:"quantity"`
	SpecialInstructions string       `json:"special_instructions"`
	Subtotal            money.Amount `json:"subtotal"`
}

// Snapshot is the public tracking view of an order. TotalPrice repeats Total
// under its historical name.
type Snapshot struct {
	ID                      uint           `json:"id"`
	OrderNumber             string         `json:"order_number"`
	Status                  OrderStatus    `json:"status"`
	OrderType               string         `json:"order_type"`
	GuestName               string         `json:"guest_name"`
	GuestPhone              string         `json:"guest_phone"`
	GuestEmail              string         `json:"guest_email"`
	TableNumber             *int           `json:"table_number,omitempty"`
	PreferredPickupTime     *time.Time     `json:"preferred_pickup_time,omitempty"`
	DeliveryAddress         string         `json:"delivery_address,omitempty"`
	DeliveryCity            string         `json:"delivery_city,omitempty"`
	DeliveryPostalCode      string         `json:"delivery_postal_code,omitempty"`
	DeliveryCountry         string         `json:"delivery_country,omitempty"`
	PaymentStatus           PaymentStatus  `json:"payment_status"`
	PaymentMethod           PaymentMethod  `json:"payment_method"`
	IsPaid                  bool           `json:"is_paid"`
	Subtotal                money.Amount   `json:"subtotal"`
	Tax                     money.Amount   `json:"tax"`
	DeliveryCharge          money.Amount   `json:"delivery_charge"`
	Total                   money.Amount   `json:"total"`
	TotalPrice              money.Amount   `json:"total_price"`
	CreatedAt               time.Time      `json:"created_at"`
	EstimatedCompletionTime *time.Time     `json:"estimated_completion_time"`
	Items                   []ItemSnapshot `json:"items"`
	SpecialRequests         string         `json:"special_requests"`
}

// ToSnapshot builds the tracking view of o. ds provides the estimate
// durations; nil means defaults.
func ToSnapshot(o *Order, prefix string, ds *settings.DeliverySettings) Snapshot {
	snap := Snapshot{
		ID:                      o.ID,
		OrderNumber:             Reference(prefix, o.ID),
		Status:                  o.Status,
		OrderType:               string(o.OrderType),
		GuestName:               o.GuestName,
		GuestPhone:              o.GuestPhone,
		GuestEmail:              o.GuestEmail,
		TableNumber:             o.TableNumber,
		PreferredPickupTime:     o.PreferredPickupTime,
		DeliveryAddress:         o.DeliveryAddress,
		DeliveryCity:            o.DeliveryCity,
		DeliveryPostalCode:      o.DeliveryPostalCode,
		DeliveryCountry:         o.DeliveryCountry,
		PaymentStatus:           o.PaymentStatus,
		PaymentMethod:           o.PaymentMethod,
		IsPaid:                  o.IsPaid(),
		Subtotal:                o.Subtotal,
		Tax:                     o.Tax,
		DeliveryCharge:          o.DeliveryCharge,
		Total:                   o.Total,
		TotalPrice:              o.Total,
		CreatedAt:               o.CreatedAt,
		EstimatedCompletionTime: o.EstimatedCompletion(ds),
		Items:                   make([]ItemSnapshot, 0, len(o.Items)),
		SpecialRequests:         o.SpecialRequests,
	}
	for _, item := range o.Items {
		snap.Items = append(snap.Items, ItemSnapshot{
			ID:                  item.ID,
			MenuItemID:          item.MenuItemID,
			ItemName:            item.ItemName,
			ItemPrice:           item.ItemPrice,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
			Subtotal:            item.Subtotal(),
		})
	}
	return snap
}

// Snapshot builds the tracking view of o using the active settings
func (s *Service) Snapshot(ctx context.Context, o *Order) Snapshot {
	ds := s.settings.Current(ctx)
	return ToSnapshot(o, s.config.OrderPrefix, &ds)
}
