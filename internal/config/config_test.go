package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Sip and Sunshine", cfg.Restaurant.SiteName)
	assert.Equal(t, "Europe/Amsterdam", cfg.Restaurant.TimeZone)
	assert.Equal(t, "Netherlands", cfg.Restaurant.DefaultCountry)
	assert.Equal(t, "SIP", cfg.Restaurant.OrderPrefix)
	assert.Equal(t, 500, cfg.Restaurant.ChatbotMaxChars)
	assert.Equal(t, 24*time.Hour, cfg.Cart.GuestTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "Europe/Amsterdam", cfg.Location().String())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RESTAURANT_TIMEZONE", "UTC")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("CART_GUEST_TTL", "2h")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Hour, cfg.Cart.GuestTTL)
	assert.Equal(t, 120, cfg.Security.RateLimitPerMinute)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "short jwt secret",
			env:     map[string]string{"JWT_SECRET": "short"},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "unknown time zone",
			env:     map[string]string{"RESTAURANT_TIMEZONE": "Mars/Olympus_Mons"},
			wantErr: "RESTAURANT_TIMEZONE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
