package postgres

import (
	"testing"

	"github.com/sip-sunshine/restaurant-backend/internal/domain/catalog"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/settings"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/logger"
	"github.com/sip-sunshine/restaurant-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateAndSeed(t *testing.T) {
	db := testutil.NewDB(t)
	m := NewMigration(db, logger.Discard())

	require.NoError(t, m.RunAutoMigrations())
	require.NoError(t, m.CreateIndexes())
	require.NoError(t, m.SeedInitialData())
	require.NoError(t, m.SeedInitialData(), "seeding twice is a no-op")

	for _, table := range []string{"orders", "order_items", "reservations", "contact_messages"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	var menuItems, deliveryRows, paymentRows int64
	require.NoError(t, db.Model(&catalog.MenuItem{}).Count(&menuItems).Error)
	require.NoError(t, db.Model(&settings.DeliverySettings{}).Count(&deliveryRows).Error)
	require.NoError(t, db.Model(&settings.PaymentSettings{}).Count(&paymentRows).Error)
	assert.Equal(t, int64(14), menuItems)
	assert.Equal(t, int64(1), deliveryRows)
	assert.Equal(t, int64(2), paymentRows)

	var ds settings.DeliverySettings
	require.NoError(t, db.First(&ds).Error)
	assert.True(t, ds.Active)
	assert.Equal(t, "2.50", ds.DeliveryChargeFixed.String())

	var beef catalog.MenuItem
	require.NoError(t, db.Where("name = ?", "Australian Organic Beef").First(&beef).Error)
	assert.Equal(t, "34.99", beef.Price.String())
	assert.True(t, beef.IsActive)
}
