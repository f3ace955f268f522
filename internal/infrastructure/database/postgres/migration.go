// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"errors"
	"fmt"

	"github.com/sip-sunshine/restaurant-backend/internal/domain/cart"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/catalog"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/contact"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/reservation"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/settings"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/user"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&settings.DeliverySettings{},
		&settings.PaymentSettings{},

		&catalog.MenuItem{},

		&user.User{},
		&user.CustomerProfile{},

		&cart.Record{},

		&order.Order{},
		&order.OrderItem{},
		&order.OrderStatusHistory{},

		&reservation.Reservation{},
		&contact.Message{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	for _, model := range Models() {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates composite indexes the struct tags cannot express
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_menu_items_category_sort ON menu_items(category, sort_order, id)",
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_delivery_settings_active ON delivery_settings(active)",
		"CREATE INDEX IF NOT EXISTS idx_reservations_status_created ON reservations(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_contact_messages_read_created ON contact_messages(is_read, created_at DESC)",
	}

	failCount := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).WithField("sql", indexSQL).Warn("Failed to create index")
			failCount++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": len(indexes) - failCount,
		"failed":  failCount,
	}).Info("Database indexes ensured")
	return nil
}

// SeedInitialData inserts the default settings and the starter menu when
// the tables are empty
func (m *Migration) SeedInitialData() error {
	if err := m.seedDeliverySettings(); err != nil {
		return fmt.Errorf("failed to seed delivery settings: %w", err)
	}
	if err := m.seedPaymentSettings(); err != nil {
		return fmt.Errorf("failed to seed payment settings: %w", err)
	}
	if err := m.seedMenu(); err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}
	return nil
}

func (m *Migration) seedDeliverySettings() error {
	var existing settings.DeliverySettings
	err := m.db.Where("active = ?", true).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	defaults := settings.Defaults()
	if err := m.db.Create(&defaults).Error; err != nil {
		return err
	}
	m.logger.Info("Seeded default delivery settings")
	return nil
}

func (m *Migration) seedPaymentSettings() error {
	for _, gateway := range []string{"stripe", "paypal"} {
		ps := settings.PaymentSettings{Gateway: gateway, TestMode: true}
		if err := m.db.Where(settings.PaymentSettings{Gateway: gateway}).FirstOrCreate(&ps).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *Migration) seedMenu() error {
	var count int64
	if err := m.db.Model(&catalog.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []catalog.MenuItem{
		{Name: "Fresh Oysters", Description: "Served with lemon and cocktail sauce", Category: catalog.CategoryAppetizers, Price: money.MustParse("12.99"), SortOrder: 1},
		{Name: "Shrimp Tempura", Description: "Crispy battered shrimp with dipping sauce", Category: catalog.CategoryAppetizers, Price: money.MustParse("14.99"), SortOrder: 2},
		{Name: "Foie Gras Mousse", Description: "Smooth liver mousse with toast points", Category: catalog.CategoryAppetizers, Price: money.MustParse("13.99"), SortOrder: 3},
		{Name: "Australian Organic Beef", Description: "Grilled to perfection with seasonal vegetables", Category: catalog.CategoryMainCourses, Price: money.MustParse("34.99"), SortOrder: 1},
		{Name: "Atlantic Lobster Tail", Description: "Butter-poached lobster with garlic sauce", Category: catalog.CategoryMainCourses, Price: money.MustParse("42.99"), SortOrder: 2},
		{Name: "Chilean Sea Bass", Description: "Pan-seared with lemon butter and capers", Category: catalog.CategoryMainCourses, Price: money.MustParse("38.99"), SortOrder: 3},
		{Name: "Duck Confit", Description: "Slow-roasted duck leg with cherry gastrique", Category: catalog.CategoryMainCourses, Price: money.MustParse("36.99"), SortOrder: 4},
		{Name: "Chocolate Lava Cake", Description: "Warm chocolate cake with vanilla ice cream", Category: catalog.CategoryDesserts, Price: money.MustParse("9.99"), SortOrder: 1},
		{Name: "Crème Brûlée", Description: "Classic French custard with caramelized sugar", Category: catalog.CategoryDesserts, Price: money.MustParse("11.99"), SortOrder: 2},
		{Name: "Tiramisu", Description: "Italian dessert with mascarpone and coffee", Category: catalog.CategoryDesserts, Price: money.MustParse("8.99"), SortOrder: 3},
		{Name: "House Wine", Description: "Premium selection of red or white wine", Category: catalog.CategoryBeverages, Price: money.MustParse("6.99"), SortOrder: 1},
		{Name: "Craft Beer", Description: "Local craft beer selection", Category: catalog.CategoryBeverages, Price: money.MustParse("5.99"), SortOrder: 2},
		{Name: "Fresh Mojito", Description: "Mint, lime, rum, and soda", Category: catalog.CategoryDrinks, Price: money.MustParse("8.99"), SortOrder: 1},
		{Name: "House Cocktail", Description: "Our signature mixed drink", Category: catalog.CategoryDrinks, Price: money.MustParse("9.99"), SortOrder: 2},
	}
	for i := range items {
		items[i].IsActive = true
	}

	if err := m.db.Create(&items).Error; err != nil {
		return err
	}
	m.logger.WithField("items", len(items)).Info("Seeded starter menu")
	return nil
}

