// Package pricing computes order totals: subtotal, VAT, delivery charge and
// grand total, all in integer cents.
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/settings"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
)

// TaxRate is the Dutch VAT rate applied to every order.
var TaxRate = decimal.RequireFromString("0.21")

// MaxQuantity bounds the quantity of a single order or cart line.
const MaxQuantity = 1000

// MaxUnitPrice bounds the unit price of a single line.
const MaxUnitPrice = money.Max

// DefaultDeliveryCharge applies to delivery orders when no settings could be
// loaded.
const DefaultDeliveryCharge money.Amount = 250

// Mode is the way an order is served.
type Mode string

const (
	ModeSeated   Mode = "seated"
	ModePickup   Mode = "pickup"
	ModeDelivery Mode = "delivery"
)

// Modes lists the valid order modes.
var Modes = []Mode{ModeSeated, ModePickup, ModeDelivery}

// IsValid reports whether m is a known order mode
func (m Mode) IsValid() bool {
	switch m {
	case ModeSeated, ModePickup, ModeDelivery:
		return true
	}
	return false
}

// Line is one priced row of an order or cart.
type Line struct {
	UnitPrice money.Amount
	Quantity  int
}

// Subtotal returns unit price times quantity.
func (l Line) Subtotal() money.Amount {
	return l.UnitPrice.Times(l.Quantity)
}

// Valid reports whether the line has a positive price and quantity within
// MaxUnitPrice and MaxQuantity.
func (l Line) Valid() bool {
	return l.UnitPrice > 0 && l.UnitPrice <= MaxUnitPrice &&
		l.Quantity > 0 && l.Quantity <= MaxQuantity
}

// Quote is the monetary breakdown of an order.
// Total always equals Subtotal + Tax + DeliveryCharge.
type Quote struct {
	Subtotal       money.Amount `json:"subtotal"`
	Tax            money.Amount `json:"tax"`
	DeliveryCharge money.Amount `json:"delivery_charge"`
	Total          money.Amount `json:"total"`
}

// TaxOn returns the VAT due on subtotal, rounded half-up to the cent.
func TaxOn(subtotal money.Amount) money.Amount {
	return subtotal.MulRate(TaxRate)
}

// Sum adds up the line subtotals without rounding.
func Sum(lines []Line) money.Amount {
	var total money.Amount
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// Calculate prices lines for the given mode. ds is the active delivery
// configuration; nil means it could not be loaded and the flat
// DefaultDeliveryCharge is used for delivery orders.
func Calculate(mode Mode, lines []Line, ds *settings.DeliverySettings) (Quote, error) {
	if !mode.IsValid() {
		return Quote{}, apperrors.Validation("order_type", "Invalid order type: %s", mode)
	}
	if len(lines) == 0 {
		return Quote{}, apperrors.Validation("items", "Order must contain at least one item")
	}
	var subtotal money.Amount
	for _, l := range lines {
		if !l.Valid() {
			return Quote{}, apperrors.Validation("items", "Invalid item data")
		}
		subtotal += l.Subtotal()
		if subtotal > money.Max {
			return Quote{}, apperrors.Validation("items", "Order total is too large")
		}
	}

	q := Quote{Subtotal: subtotal}
	q.Tax = TaxOn(q.Subtotal)
	q.DeliveryCharge = DeliveryCharge(mode, q.Subtotal, ds)
	q.Total = q.Subtotal + q.Tax + q.DeliveryCharge
	return q, nil
}

// DeliveryCharge returns the surcharge for mode. Only delivery orders pay one.
func DeliveryCharge(mode Mode, subtotal money.Amount, ds *settings.DeliverySettings) money.Amount {
	if mode != ModeDelivery {
		return money.Zero
	}
	if ds == nil {
		return DefaultDeliveryCharge
	}
	return ds.DeliveryCharge(subtotal)
}

// Recompute rebuilds a quote from lines and an already-decided delivery
// charge. Used when items change after creation.
func Recompute(lines []Line, deliveryCharge money.Amount) Quote {
	q := Quote{Subtotal: Sum(lines), DeliveryCharge: deliveryCharge}
	q.Tax = TaxOn(q.Subtotal)
	q.Total = q.Subtotal + q.Tax + q.DeliveryCharge
	return q
}
