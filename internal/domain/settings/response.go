// internal/domain/settings/response.go
package settings

import "time"

// Response is the flat JSON shape served by the delivery settings endpoint.
// The legacy alias fields mirror canonical ones for older clients and are
// never read back.
type Response struct {
	DeliveryEnabled          bool    `json:"delivery_enabled"`
	PickupEnabled            bool    `json:"pickup_enabled"`
	DeliveryChargeFixed      float64 `json:"delivery_charge_fixed"`
	DeliveryChargePercent    float64 `json:"delivery_charge_percent"`
	EstimatedPickupMinutes   int     `json:"estimated_pickup_time"`
	EstimatedDeliveryMinutes int     `json:"estimated_delivery_time"`
	MinDeliveryAmount        float64 `json:"min_delivery_amount"`
	MinPickupAmount          float64 `json:"min_pickup_amount"`
	MaxDeliveryRadiusKm      float64 `json:"max_delivery_radius"`
	DeliveryOpenNow          bool    `json:"delivery_open_now"`
	PickupOpenNow            bool    `json:"pickup_open_now"`

	DeliveryChargePercentage float64 `json:"delivery_charge_percentage"`
	MinimumOrderAmount       float64 `json:"minimum_order_amount"`
	ServiceRadiusKm          float64 `json:"service_radius_km"`
}

// ToResponse renders ds for the API, evaluating service hours at now.
func ToResponse(ds DeliverySettings, now time.Time) Response {
	pct, _ := ds.DeliveryChargePercent.Float64()
	radius, _ := ds.MaxDeliveryRadiusKm.Float64()
	deliveryOpen, _ := ds.IsWithinHours(ModeDelivery, now)
	pickupOpen, _ := ds.IsWithinHours(ModePickup, now)

	return Response{
		DeliveryEnabled:          ds.DeliveryEnabled,
		PickupEnabled:            ds.PickupEnabled,
		DeliveryChargeFixed:      ds.DeliveryChargeFixed.Float64(),
		DeliveryChargePercent:    pct,
		EstimatedPickupMinutes:   ds.EstimatedPickupMinutes,
		EstimatedDeliveryMinutes: ds.EstimatedDeliveryMinutes,
		MinDeliveryAmount:        ds.MinDeliveryAmount.Float64(),
		MinPickupAmount:          ds.MinPickupAmount.Float64(),
		MaxDeliveryRadiusKm:      radius,
		DeliveryOpenNow:          ds.DeliveryEnabled && deliveryOpen,
		PickupOpenNow:            ds.PickupEnabled && pickupOpen,

		DeliveryChargePercentage: pct,
		MinimumOrderAmount:       ds.MinDeliveryAmount.Float64(),
		ServiceRadiusKm:          radius,
	}
}
