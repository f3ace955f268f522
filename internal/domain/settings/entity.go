// internal/domain/settings/entity.go
package settings

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
)

// Mode identifies which service window a time check applies to.
type Mode string

const (
	ModeDelivery Mode = "delivery"
	ModePickup   Mode = "pickup"
)

// DeliverySettings holds the delivery and pickup business parameters. At most
// one row is active at a time; the back office edits it.
type DeliverySettings struct {
	ID                       uint            `gorm:"primaryKey" json:"id"`
	Active                   bool            `gorm:"not null" json:"active"`
	DeliveryEnabled          bool            `gorm:"not null" json:"delivery_enabled"`
	PickupEnabled            bool            `gorm:"not null" json:"pickup_enabled"`
	DeliveryChargeFixed      money.Amount    `gorm:"not null" json:"delivery_charge_fixed"` // In cents
	DeliveryChargePercent    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"delivery_charge_percent"`
	MinDeliveryAmount        money.Amount    `gorm:"not null" json:"min_delivery_amount"`
	MinPickupAmount          money.Amount    `gorm:"not null" json:"min_pickup_amount"`
	EstimatedPickupMinutes   int             `gorm:"not null" json:"estimated_pickup_time"`
	EstimatedDeliveryMinutes int             `gorm:"not null" json:"estimated_delivery_time"`
	MaxDeliveryRadiusKm      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"max_delivery_radius"`
	DeliveryStartTime        string          `gorm:"size:5;not null" json:"delivery_start_time"`
	DeliveryEndTime          string          `gorm:"size:5;not null" json:"delivery_end_time"`
	PickupStartTime          string          `gorm:"size:5;not null" json:"pickup_start_time"`
	PickupEndTime            string          `gorm:"size:5;not null" json:"pickup_end_time"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

// PaymentSettings holds the configuration of one card payment gateway.
type PaymentSettings struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Gateway   string    `gorm:"uniqueIndex;not null;size:20" json:"gateway"` // stripe, paypal
	Enabled   bool      `gorm:"not null" json:"enabled"`
	TestMode  bool      `gorm:"not null" json:"test_mode"`
	PublicKey string    `gorm:"size:500" json:"public_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (DeliverySettings) TableName() string { return "delivery_settings" }
func (PaymentSettings) TableName() string  { return "payment_settings" }

// Defaults returns the parameters used when no settings row exists.
func Defaults() DeliverySettings {
	return DeliverySettings{
		Active:                   true,
		DeliveryEnabled:          true,
		PickupEnabled:            true,
		DeliveryChargeFixed:      money.FromCents(250),
		DeliveryChargePercent:    decimal.Zero,
		MinDeliveryAmount:        money.FromCents(1000),
		MinPickupAmount:          money.FromCents(500),
		EstimatedPickupMinutes:   15,
		EstimatedDeliveryMinutes: 30,
		MaxDeliveryRadiusKm:      decimal.NewFromInt(5),
		DeliveryStartTime:        "11:00",
		DeliveryEndTime:          "22:00",
		PickupStartTime:          "11:00",
		PickupEndTime:            "22:00",
	}
}

// DeliveryCharge returns the surcharge for a delivery order with the given
// subtotal: the fixed charge plus the percentage charge rounded half-up.
func (s *DeliverySettings) DeliveryCharge(subtotal money.Amount) money.Amount {
	return s.DeliveryChargeFixed + subtotal.Percent(s.DeliveryChargePercent)
}

// IsWithinHours reports whether the wall-clock time of t falls inside the
// service window for mode. Start is inclusive, end exclusive.
func (s *DeliverySettings) IsWithinHours(mode Mode, t time.Time) (bool, error) {
	start, end := s.PickupStartTime, s.PickupEndTime
	if mode == ModeDelivery {
		start, end = s.DeliveryStartTime, s.DeliveryEndTime
	}

	startMin, err := minutesOfDay(start)
	if err != nil {
		return false, err
	}
	endMin, err := minutesOfDay(end)
	if err != nil {
		return false, err
	}

	now := t.Hour()*60 + t.Minute()
	if startMin <= endMin {
		return now >= startMin && now < endMin, nil
	}
	// window wraps past midnight
	return now >= startMin || now < endMin, nil
}

func minutesOfDay(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
