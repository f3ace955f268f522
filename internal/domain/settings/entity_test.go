package settings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := Defaults()

	assert.Equal(t, "2.50", d.DeliveryChargeFixed.String())
	assert.True(t, d.DeliveryChargePercent.IsZero())
	assert.Equal(t, 15, d.EstimatedPickupMinutes)
	assert.Equal(t, 30, d.EstimatedDeliveryMinutes)
	assert.Equal(t, "10.00", d.MinDeliveryAmount.String())
	assert.Equal(t, "5.00", d.MinPickupAmount.String())
}

func TestDeliveryCharge(t *testing.T) {
	d := Defaults()
	assert.Equal(t, "2.50", d.DeliveryCharge(money.MustParse("12.50")).String())

	d.DeliveryChargePercent = decimal.RequireFromString("10")
	assert.Equal(t, "3.75", d.DeliveryCharge(money.MustParse("12.50")).String())

	// 12.50 * 2.5% = 0.3125 -> 0.31
	d.DeliveryChargePercent = decimal.RequireFromString("2.5")
	assert.Equal(t, "2.81", d.DeliveryCharge(money.MustParse("12.50")).String())
}

func TestIsWithinHours(t *testing.T) {
	d := Defaults()
	day := func(h, m int) time.Time { return time.Date(2026, 3, 14, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name string
		mode Mode
		at   time.Time
		want bool
	}{
		{"before opening", ModeDelivery, day(10, 59), false},
		{"at opening", ModeDelivery, day(11, 0), true},
		{"evening", ModePickup, day(21, 59), true},
		{"at closing", ModePickup, day(22, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.IsWithinHours(tt.mode, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	d.DeliveryStartTime, d.DeliveryEndTime = "18:00", "02:00"
	late, err := d.IsWithinHours(ModeDelivery, day(1, 30))
	require.NoError(t, err)
	assert.True(t, late)

	d.PickupStartTime = "noon"
	_, err = d.IsWithinHours(ModePickup, day(12, 0))
	assert.Error(t, err)
}

func TestToResponseCarriesLegacyAliases(t *testing.T) {
	d := Defaults()
	d.DeliveryChargePercent = decimal.RequireFromString("5")

	resp := ToResponse(d, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, 2.5, resp.DeliveryChargeFixed)
	assert.Equal(t, 5.0, resp.DeliveryChargePercent)
	assert.Equal(t, resp.DeliveryChargePercent, resp.DeliveryChargePercentage)
	assert.Equal(t, resp.MinDeliveryAmount, resp.MinimumOrderAmount)
	assert.Equal(t, resp.MaxDeliveryRadiusKm, resp.ServiceRadiusKm)
	assert.True(t, resp.DeliveryOpenNow)

	d.DeliveryEnabled = false
	assert.False(t, ToResponse(d, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)).DeliveryOpenNow)
}
