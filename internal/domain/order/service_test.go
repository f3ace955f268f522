package order

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/catalog"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/pricing"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/settings"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/logger"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
	"github.com/sip-sunshine/restaurant-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type staticSettings struct {
	ds settings.DeliverySettings
}

func (s staticSettings) Current(context.Context) settings.DeliverySettings { return s.ds }

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func testConfig() config.RestaurantConfig {
	return config.RestaurantConfig{
		TimeZone:       "Europe/Amsterdam",
		DefaultCountry: "Netherlands",
		OrderPrefix:    "SIP",
	}
}

func newTestService(t *testing.T, ds settings.DeliverySettings) (*Service, *gorm.DB, *recordingPublisher) {
	db := testutil.NewDB(t, &catalog.MenuItem{}, &Order{}, &OrderItem{}, &OrderStatusHistory{})
	require.NoError(t, db.Create(&catalog.MenuItem{
		Name:     "Burger",
		Category: catalog.CategoryMainCourses,
		Price:    money.MustParse("12.50"),
		IsActive: true,
	}).Error)

	pub := &recordingPublisher{}
	svc := NewService(db, staticSettings{ds: ds}, pub, testConfig(), logger.Discard())
	return svc, db, pub
}

func intPtr(i int) *int { return &i }

func seatedRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		OrderType:     "seated",
		PaymentMethod: "cash",
		GuestName:     "Anna",
		GuestPhone:    "+31612345678",
		TableNumber:   intPtr(5),
		Items: []OrderItemRequest{
			{ID: 1, Name: "Burger", Price: money.MustParse("12.50"), Quantity: 2},
			{ID: 77, Name: "Fries", Price: money.MustParse("5.00"), Quantity: 1},
		},
	}
}

func countOrders(t *testing.T, db *gorm.DB) (orders, items int64) {
	require.NoError(t, db.Model(&Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&OrderItem{}).Count(&items).Error)
	return orders, items
}

func TestCreateSeatedOrder(t *testing.T) {
	svc, db, pub := newTestService(t, settings.Defaults())
	ctx := context.Background()

	o, err := svc.Create(ctx, seatedRequest(), nil)
	require.NoError(t, err)

	assert.Equal(t, "30.00", o.Subtotal.String())
	assert.Equal(t, "6.30", o.Tax.String())
	assert.Equal(t, "0.00", o.DeliveryCharge.String())
	assert.Equal(t, "36.30", o.Total.String())
	assert.Equal(t, OrderStatusPending, o.Status)
	assert.Equal(t, PaymentStatusUnpaid, o.PaymentStatus)
	assert.Equal(t, 5, *o.TableNumber)
	assert.Nil(t, o.UserID)

	stored, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	require.NotNil(t, stored.Items[0].MenuItemID)
	assert.Equal(t, uint(1), *stored.Items[0].MenuItemID)
	assert.Nil(t, stored.Items[1].MenuItemID, "unknown menu id keeps a null reference")
	assert.Equal(t, "Fries", stored.Items[1].ItemName)
	assert.Equal(t, "5.00", stored.Items[1].ItemPrice.String())
	require.Len(t, stored.StatusHistory, 1)
	assert.Equal(t, OrderStatusPending, stored.StatusHistory[0].Status)

	orders, items := countOrders(t, db)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(2), items)

	require.Len(t, pub.events, 1)
	assert.Equal(t, EventOrderCreated, pub.events[0].Type)
	assert.Equal(t, "SIP-000001", pub.events[0].Reference)
}

func TestCreateDeliveryOrder(t *testing.T) {
	svc, _, _ := newTestService(t, settings.Defaults())

	o, err := svc.Create(context.Background(), &CreateOrderRequest{
		OrderType:          "delivery",
		PaymentMethod:      "stripe",
		GuestName:          "Bram",
		GuestPhone:         "0612345678",
		DeliveryAddress:    "Damrak 1",
		DeliveryCity:       "Amsterdam",
		DeliveryPostalCode: "1012LG",
		Items:              []OrderItemRequest{{ID: 1, Price: money.MustParse("12.50"), Quantity: 1}},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "12.50", o.Subtotal.String())
	assert.Equal(t, "2.63", o.Tax.String())
	assert.Equal(t, "2.50", o.DeliveryCharge.String())
	assert.Equal(t, "17.63", o.Total.String())
	assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
	assert.Equal(t, "Netherlands", o.DeliveryCountry)
	assert.Equal(t, "Burger", o.Items[0].ItemName, "blank name falls back to the menu name")
}

func TestCreateDeliveryUsesPercentCharge(t *testing.T) {
	ds := settings.Defaults()
	ds.DeliveryChargeFixed = money.MustParse("1.00")
	ds.DeliveryChargePercent = decimal.NewFromInt(10)
	svc, _, _ := newTestService(t, ds)

	o, err := svc.Create(context.Background(), &CreateOrderRequest{
		OrderType:          "delivery",
		PaymentMethod:      "cash",
		GuestName:          "Bram",
		GuestPhone:         "0612345678",
		DeliveryAddress:    "Damrak 1",
		DeliveryCity:       "Amsterdam",
		DeliveryPostalCode: "1012LG",
		DeliveryCountry:    "Belgium",
		Items:              []OrderItemRequest{{Name: "Soup", Price: money.MustParse("20.00"), Quantity: 1}},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "3.00", o.DeliveryCharge.String())
	assert.Equal(t, "27.20", o.Total.String())
	assert.Equal(t, "Belgium", o.DeliveryCountry)
}

func TestCreatePickupTime(t *testing.T) {
	svc, _, _ := newTestService(t, settings.Defaults())
	ctx := context.Background()

	req := &CreateOrderRequest{
		OrderType:           "pickup",
		PaymentMethod:       "paypal",
		GuestName:           "Cor",
		GuestPhone:          "0611111111",
		PreferredPickupTime: "2024-01-15T14:30",
		Items:               []OrderItemRequest{{ID: 1, Price: money.MustParse("12.50"), Quantity: 1}},
	}
	o, err := svc.Create(ctx, req, nil)
	require.NoError(t, err)

	require.NotNil(t, o.PreferredPickupTime)
	amsterdam, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)
	assert.True(t, o.PreferredPickupTime.Equal(time.Date(2024, 1, 15, 14, 30, 0, 0, amsterdam)))

	req.PreferredPickupTime = "2024-01-15T14:30:00Z"
	o, err = svc.Create(ctx, req, nil)
	require.NoError(t, err)
	assert.True(t, o.PreferredPickupTime.Equal(time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)))

	req.PreferredPickupTime = "2024-01-15T14:30+01:00"
	o, err = svc.Create(ctx, req, nil)
	require.NoError(t, err)
	assert.True(t, o.PreferredPickupTime.Equal(time.Date(2024, 1, 15, 13, 30, 0, 0, time.UTC)))

	req.PreferredPickupTime = "tomorrow-ish"
	_, err = svc.Create(ctx, req, nil)
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "preferred_pickup_time", ve.Field)
}

func TestCreateLinksAuthenticatedUser(t *testing.T) {
	svc, _, _ := newTestService(t, settings.Defaults())
	userID := uint(9)

	o, err := svc.Create(context.Background(), seatedRequest(), &userID)
	require.NoError(t, err)
	require.NotNil(t, o.UserID)
	assert.Equal(t, userID, *o.UserID)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *CreateOrderRequest)
		field   string
		message string
	}{
		{"missing order type", func(r *CreateOrderRequest) { r.OrderType = "" }, "order_type", "Missing required field: order_type"},
		{"missing guest name", func(r *CreateOrderRequest) { r.GuestName = "  " }, "guest_name", "Missing required field: guest_name"},
		{"missing phone", func(r *CreateOrderRequest) { r.GuestPhone = "" }, "guest_phone", "Missing required field: guest_phone"},
		{"no items", func(r *CreateOrderRequest) { r.Items = nil }, "items", "Missing required field: items"},
		{"bad order type", func(r *CreateOrderRequest) { r.OrderType = "takeaway" }, "order_type", "Invalid order type. Must be one of: seated, pickup, delivery"},
		{"bad payment", func(r *CreateOrderRequest) { r.PaymentMethod = "bitcoin" }, "payment_method", "Invalid payment method. Must be one of: cash, stripe, paypal"},
		{"seated without table", func(r *CreateOrderRequest) { r.TableNumber = nil }, "table_number", "Table number required for dine-in orders"},
		{"delivery without city", func(r *CreateOrderRequest) {
			r.OrderType = "delivery"
			r.DeliveryAddress = "Damrak 1"
			r.DeliveryPostalCode = "1012LG"
		}, "delivery_city", "Missing delivery field: delivery_city"},
		{"delivery without address", func(r *CreateOrderRequest) { r.OrderType = "delivery" }, "delivery_address", "Missing delivery field: delivery_address"},
		{"zero quantity", func(r *CreateOrderRequest) { r.Items[0].Quantity = 0 }, "items", "Invalid item data"},
		{"zero price", func(r *CreateOrderRequest) { r.Items[1].Price = 0 }, "items", "Invalid item data"},
		{"quantity too large", func(r *CreateOrderRequest) { r.Items[0].Quantity = pricing.MaxQuantity + 1 }, "items", "Invalid item data"},
		{"price too large", func(r *CreateOrderRequest) { r.Items[1].Price = money.Max + 1 }, "items", "Invalid item data"},
		{"overflowing price", func(r *CreateOrderRequest) { r.Items[1].Price = money.FromCents(math.MaxInt64) }, "items", "Invalid item data"},
		{"subtotal too large", func(r *CreateOrderRequest) {
			r.Items[0].Price = money.Max
			r.Items[0].Quantity = pricing.MaxQuantity
		}, "items", "Order total is too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db, pub := newTestService(t, settings.Defaults())
			req := seatedRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req, nil)
			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)

			orders, items := countOrders(t, db)
			assert.Zero(t, orders)
			assert.Zero(t, items)
			assert.Empty(t, pub.events)
		})
	}
}

func TestCreateRollsBackWhenItemsFail(t *testing.T) {
	svc, db, pub := newTestService(t, settings.Defaults())
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("fail_order_items", func(tx *gorm.DB) {
		if tx.Statement.Table == "order_items" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := svc.Create(context.Background(), seatedRequest(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create order items")

	orders, items := countOrders(t, db)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Empty(t, pub.events)
}

func TestPublishFailureDoesNotFailCreate(t *testing.T) {
	svc, db, pub := newTestService(t, settings.Defaults())
	pub.err = errors.New("broker down")

	_, err := svc.Create(context.Background(), seatedRequest(), nil)
	require.NoError(t, err)

	orders, _ := countOrders(t, db)
	assert.Equal(t, int64(1), orders)
}

func TestGetByReference(t *testing.T) {
	svc, _, _ := newTestService(t, settings.Defaults())
	ctx := context.Background()

	o, err := svc.Create(ctx, seatedRequest(), nil)
	require.NoError(t, err)

	for _, ref := range []string{"SIP-000001", "sip-1", "1"} {
		got, err := svc.GetByReference(ctx, ref)
		require.NoError(t, err, ref)
		assert.Equal(t, o.ID, got.ID)
	}

	_, err = svc.GetByReference(ctx, "SIP-000404")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Get(ctx, 404)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateStatus(t *testing.T) {
	svc, _, pub := newTestService(t, settings.Defaults())
	ctx := context.Background()
	staff := uint(2)

	o, err := svc.Create(ctx, seatedRequest(), nil)
	require.NoError(t, err)

	for _, status := range []OrderStatus{OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReady} {
		o, err = svc.UpdateStatus(ctx, o.ID, status, "", &staff)
		require.NoError(t, err)
		assert.Equal(t, status, o.Status)
	}

	_, err = svc.UpdateStatus(ctx, o.ID, OrderStatusOutForDelivery, "", &staff)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	o, err = svc.UpdateStatus(ctx, o.ID, OrderStatusCompleted, "Served", &staff)
	require.NoError(t, err)
	assert.NotNil(t, o.CompletedAt)
	require.Len(t, o.StatusHistory, 5)
	assert.Equal(t, "Served", o.StatusHistory[0].Comment)
	assert.Equal(t, &staff, o.StatusHistory[0].CreatedBy)

	_, err = svc.UpdateStatus(ctx, o.ID, OrderStatusCancelled, "", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, o.ID, OrderStatus("lost"), "", nil)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.UpdateStatus(ctx, 999, OrderStatusConfirmed, "", nil)
	assert.True(t, apperrors.IsNotFound(err))

	assert.Len(t, pub.events, 5)
	assert.Equal(t, EventStatusChanged, pub.events[4].Type)
	assert.Equal(t, OrderStatusCompleted, pub.events[4].Status)
}

func TestUpdatePaymentStatus(t *testing.T) {
	svc, _, _ := newTestService(t, settings.Defaults())
	ctx := context.Background()

	o, err := svc.Create(ctx, seatedRequest(), nil)
	require.NoError(t, err)
	assert.False(t, o.IsPaid())

	o, err = svc.UpdatePaymentStatus(ctx, o.ID, PaymentUpdate{
		Status:    PaymentStatusPaid,
		PaymentID: "cash-register-7",
		Details:   map[string]interface{}{"till": "front"},
	})
	require.NoError(t, err)
	assert.True(t, o.IsPaid())

	stored, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, "cash-register-7", stored.PaymentID)
	assert.Equal(t, "front", stored.PaymentDetails["till"])

	_, err = svc.UpdatePaymentStatus(ctx, o.ID, PaymentUpdate{Status: PaymentStatusFailed})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	o, err = svc.UpdatePaymentStatus(ctx, o.ID, PaymentUpdate{Status: PaymentStatusRefunded})
	require.NoError(t, err)
	assert.False(t, o.IsPaid())

	_, err = svc.UpdatePaymentStatus(ctx, 999, PaymentUpdate{Status: PaymentStatusPaid})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdatePaymentStatusConcurrent(t *testing.T) {
	svc, _, _ := newTestService(t, settings.Defaults())
	ctx := context.Background()

	o, err := svc.Create(ctx, seatedRequest(), nil)
	require.NoError(t, err)

	// unpaid -> paid and unpaid -> failed are both legal on their own, but
	// paid -> failed is not, so only one of the two may win.
	updates := []PaymentStatus{PaymentStatusPaid, PaymentStatusFailed}
	errs := make([]error, len(updates))
	var wg sync.WaitGroup
	for i, status := range updates {
		wg.Add(1)
		go func(i int, status PaymentStatus) {
			defer wg.Done()
			_, errs[i] = svc.UpdatePaymentStatus(ctx, o.ID, PaymentUpdate{Status: status})
		}(i, status)
	}
	wg.Wait()

	var failed int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestRecalculate(t *testing.T) {
	svc, db, _ := newTestService(t, settings.Defaults())
	ctx := context.Background()

	o, err := svc.Create(ctx, seatedRequest(), nil)
	require.NoError(t, err)

	same, err := svc.Recalculate(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Total, same.Total)

	require.NoError(t, db.Model(&OrderItem{}).Where("order_id = ? AND item_name = ?", o.ID, "Fries").
		Update("quantity", 3).Error)

	updated, err := svc.Recalculate(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", updated.Subtotal.String())
	assert.Equal(t, "8.40", updated.Tax.String())
	assert.Equal(t, "48.40", updated.Total.String())

	again, err := svc.Recalculate(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Total, again.Total)

	stored, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Subtotal+stored.Tax+stored.DeliveryCharge, stored.Total)
}

func TestListForUserAndStatus(t *testing.T) {
	svc, _, _ := newTestService(t, settings.Defaults())
	ctx := context.Background()
	alice, bob := uint(1), uint(2)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, seatedRequest(), &alice)
		require.NoError(t, err)
	}
	bobOrder, err := svc.Create(ctx, seatedRequest(), &bob)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, bobOrder.ID, OrderStatusConfirmed, "", nil)
	require.NoError(t, err)

	page, err := svc.ListForUser(ctx, alice, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.Len(t, page.Orders[0].Items, 2)

	confirmed, err := svc.ListByStatus(ctx, OrderStatusConfirmed, 1, 20)
	require.NoError(t, err)
	require.Len(t, confirmed.Orders, 1)
	assert.Equal(t, bobOrder.ID, confirmed.Orders[0].ID)

	_, err = svc.ListByStatus(ctx, OrderStatus("nope"), 1, 20)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSnapshot(t *testing.T) {
	svc, _, _ := newTestService(t, settings.Defaults())
	ctx := context.Background()

	o, err := svc.Create(ctx, seatedRequest(), nil)
	require.NoError(t, err)
	o, err = svc.Get(ctx, o.ID)
	require.NoError(t, err)

	snap := svc.Snapshot(ctx, o)
	assert.Equal(t, "SIP-000001", snap.OrderNumber)
	assert.Equal(t, string(pricing.ModeSeated), snap.OrderType)
	assert.Equal(t, snap.Total, snap.TotalPrice)
	assert.Nil(t, snap.EstimatedCompletionTime)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "25.00", snap.Items[0].Subtotal.String())
}
