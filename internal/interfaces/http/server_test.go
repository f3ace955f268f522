package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/cart"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/catalog"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/chatbot"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/contact"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/reservation"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/settings"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/user"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/auth"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/logger"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/qrcode"
	"github.com/sip-sunshine/restaurant-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu           sync.Mutex
	confirmed    []string
	statusEmails []order.OrderStatus
}

func (n *recordingNotifier) SendOrderConfirmationEmail(_ context.Context, snap order.Snapshot, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, snap.OrderNumber)
	return nil
}

func (n *recordingNotifier) SendOrderStatusUpdateEmail(_ context.Context, snap order.Snapshot, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusEmails = append(n.statusEmails, snap.Status)
	return nil
}

type fakeReceipts struct{}

func (fakeReceipts) GenerateReceipt(snap order.Snapshot) ([]byte, error) {
	return []byte("%PDF-" + snap.OrderNumber), nil
}

type testServer struct {
	handler  http.Handler
	users    *user.Service
	notifier *recordingNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("APP_ENV", "test")
	t.Setenv("SMTP_HOST", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Security.BcryptCost = 4

	db := testutil.NewDB(t,
		&settings.DeliverySettings{}, &settings.PaymentSettings{},
		&catalog.MenuItem{},
		&user.User{}, &user.CustomerProfile{},
		&cart.Record{},
		&order.Order{}, &order.OrderItem{}, &order.OrderStatusHistory{},
		&reservation.Reservation{}, &contact.Message{},
	)
	require.NoError(t, db.Create(&catalog.MenuItem{
		Name:     "Burger",
		Category: catalog.CategoryMainCourses,
		Price:    money.MustParse("12.50"),
		IsActive: true,
	}).Error)

	redisClient, _ := testutil.NewRedis(t)
	log := logger.Discard()

	settingsService := settings.NewService(db, log)
	catalogService := catalog.NewService(db)
	cartService := cart.NewService(db, redisClient, catalogService, cfg.Cart, log)
	orderService := order.NewService(db, settingsService, order.NoopPublisher{}, cfg.Restaurant, log)
	tokens := auth.NewJWTManager(cfg.JWT, cfg.App.Name)
	userService := user.NewService(db, cfg, tokens, cartService, log)
	notifier := &recordingNotifier{}

	server := NewServer(cfg, db, redisClient, Services{
		Settings:     settingsService,
		Catalog:      catalogService,
		Cart:         cartService,
		Orders:       orderService,
		Chatbot:      chatbot.NewService(settingsService, cfg.Restaurant),
		Users:        userService,
		Reservations: reservation.NewService(db, cfg.Restaurant, log),
		Contact:      contact.NewService(db, log),
		Tokens:       tokens,
		Notifier:     notifier,
		Receipts:     fakeReceipts{},
		Tracking:     qrcode.NewGenerator(cfg.Restaurant.PublicBaseURL),
	}, log)

	return &testServer{handler: server.Handler(), users: userService, notifier: notifier}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (s *testServer) token(t *testing.T, email, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]interface{})
	return data["access_token"].(string)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func seatedOrder() gin.H {
	return gin.H{
		"order_type":     "seated",
		"payment_method": "cash",
		"guest_name":     "Anna",
		"guest_phone":    "+31612345678",
		"guest_email":    "anna@example.com",
		"table_number":   5,
		"items": []gin.H{
			{"id": 1, "name": "Burger", "price": "12.50", "quantity": 2},
			{"id": 77, "name": "Fries", "price": "5.00", "quantity": 1},
		},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(t, http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeliverySettingsDefaults(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/settings/delivery", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, 2.5, body["delivery_charge_fixed"])
	assert.Equal(t, body["delivery_charge_percent"], body["delivery_charge_percentage"])
	assert.Equal(t, body["max_delivery_radius"], body["service_radius_km"])

	w = s.do(t, http.MethodGet, "/api/v1/settings/payment-methods", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"cash"}, decode(t, w)["payment_methods"])
}

func TestMenu(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/menu?category=main_courses", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	w = s.do(t, http.MethodGet, "/api/v1/menu?category=pizza", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/menu/99", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGuestCart(t *testing.T) {
	s := newTestServer(t)
	session := map[string]string{"X-Session-ID": "guest-1"}

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"id": 1, "quantity": 2}, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"id": 1, "quantity": 1}, session)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/cart", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "guest-1", w.Header().Get("X-Session-ID"))

	data := decode(t, w)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, 3.0, items[0].(map[string]interface{})["quantity"])
	totals := data["totals"].(map[string]interface{})
	assert.Equal(t, "37.50", totals["subtotal"])

	w = s.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"id": 1, "quantity": -1}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/cart/items/1", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)["data"].(map[string]interface{})
	assert.Empty(t, data["items"])
}

func TestNewGuestGetsSession(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/cart", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Session-ID"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "session_id=")
}

func TestCreateAndTrackOrder(t *testing.T) {
	s := newTestServer(t)
	session := map[string]string{"X-Session-ID": "guest-2"}

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"id": 1, "quantity": 1}, session)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/orders", seatedOrder(), session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Order created successfully", body["message"])
	assert.Equal(t, 1.0, body["order_id"])
	assert.Equal(t, "SIP-000001", body["order_number"])
	assert.Equal(t, "36.30", body["total"])
	assert.Equal(t, []string{"SIP-000001"}, s.notifier.confirmed)

	w = s.do(t, http.MethodGet, "/api/v1/cart", nil, session)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Empty(t, data["items"], "cart is cleared after ordering")

	w = s.do(t, http.MethodGet, "/api/v1/orders/1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode(t, w)
	assert.Equal(t, "pending", snap["status"])
	assert.Equal(t, "36.30", snap["total_price"])
	assert.Len(t, snap["items"], 2)

	w = s.do(t, http.MethodGet, "/api/v1/orders/track/sip-000001", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SIP-000001", decode(t, w)["order_number"])

	w = s.do(t, http.MethodGet, "/api/v1/orders/track/nonsense", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/orders/99", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", decode(t, w)["error"])

	w = s.do(t, http.MethodGet, "/api/v1/orders/1/qr", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = s.do(t, http.MethodGet, "/api/v1/orders/1/receipt", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-SIP-000001", w.Body.String())
}

func TestCreateOrderValidation(t *testing.T) {
	s := newTestServer(t)

	req := seatedOrder()
	delete(req, "table_number")

	w := s.do(t, http.MethodPost, "/api/v1/orders", req, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])

	r := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON", decode(t, rec)["message"])
}

func TestCreateOrderRejectsOutOfRangeItems(t *testing.T) {
	s := newTestServer(t)

	for _, item := range []gin.H{
		{"id": 1, "name": "Burger", "price": "92233720368547758.07", "quantity": 2},
		{"id": 1, "name": "Burger", "price": "12.505", "quantity": 1},
		{"id": 1, "name": "Burger", "price": "12.50", "quantity": 100000},
	} {
		req := seatedOrder()
		req["items"] = []gin.H{item}

		w := s.do(t, http.MethodPost, "/api/v1/orders", req, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	}

	w := s.do(t, http.MethodGet, "/api/v1/orders/track/SIP-000001", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatbot(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		message string
		code    int
		want    string
	}{
		{"empty", "   ", http.StatusBadRequest, "Message is required"},
		{"too long", strings.Repeat("a", 501), http.StatusBadRequest, "Message too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/chatbot", gin.H{"message": tt.message}, nil)
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.want, decode(t, w)["message"])
		})
	}

	w := s.do(t, http.MethodPost, "/api/v1/chatbot", gin.H{"message": "hello"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, chatbot.IntentGreeting, body["intent"])
	assert.NotEmpty(t, body["reply"])
}

func TestChatbotTrackingTipForCustomers(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":            "anna@example.com",
		"password":         "tulips-2024",
		"password_confirm": "tulips-2024",
		"first_name":       "Anna",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := s.token(t, "anna@example.com", "tulips-2024")

	w = s.do(t, http.MethodPost, "/api/v1/chatbot", gin.H{"message": "where is my order"}, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasSuffix(decode(t, w)["reply"].(string), chatbot.TrackingTip))

	w = s.do(t, http.MethodPost, "/api/v1/chatbot", gin.H{"message": "where is my order"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decode(t, w)["reply"], chatbot.TrackingTip)
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":            "anna@example.com",
		"password":         "tulips-2024",
		"password_confirm": "tulips-2024",
		"first_name":       "Anna",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	token := s.token(t, "anna@example.com", "tulips-2024")

	w = s.do(t, http.MethodPut, "/api/v1/profile", gin.H{"delivery_city": "Utrecht"}, bearer(token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/orders", seatedOrder(), bearer(token))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/profile/orders", nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["orders"], 1)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "anna@example.com", "password": "wrong-one"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOrders(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.users.EnsureStaff(ctx, "kitchen@example.com", "kitchen-pass1")
	require.NoError(t, err)
	staff := bearer(s.token(t, "kitchen@example.com", "kitchen-pass1"))

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":            "anna@example.com",
		"password":         "tulips-2024",
		"password_confirm": "tulips-2024",
		"first_name":       "Anna",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	customer := bearer(s.token(t, "anna@example.com", "tulips-2024"))

	w = s.do(t, http.MethodPost, "/api/v1/orders", seatedOrder(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/admin/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/admin/orders", nil, customer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/admin/orders?status=pending", nil, staff)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["orders"], 1)

	w = s.do(t, http.MethodPut, "/api/v1/admin/orders/1/status", gin.H{"status": "completed"}, staff)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/admin/orders/1/status", gin.H{"status": "confirmed", "comment": "on it"}, staff)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []order.OrderStatus{order.OrderStatusConfirmed}, s.notifier.statusEmails)

	w = s.do(t, http.MethodPut, "/api/v1/admin/orders/1/payment-status", gin.H{"payment_status": "paid"}, staff)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, snap["is_paid"])

	w = s.do(t, http.MethodPost, "/api/v1/admin/orders/1/recalculate", nil, staff)
	require.Equal(t, http.StatusOK, w.Code)
	snap = decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "36.30", snap["total"])

	w = s.do(t, http.MethodPut, "/api/v1/admin/orders/42/status", gin.H{"status": "confirmed"}, staff)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUsersAndSettings(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	admin, err := s.users.EnsureStaff(ctx, "kitchen@example.com", "kitchen-pass1")
	require.NoError(t, err)
	staff := bearer(s.token(t, "kitchen@example.com", "kitchen-pass1"))

	w := s.do(t, http.MethodGet, "/api/v1/admin/users", nil, staff)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/admin/users/"+strconv.FormatUint(uint64(admin.ID), 10)+"/staff", gin.H{"value": false}, staff)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/admin/users/999/active", gin.H{"value": false}, staff)
	assert.Equal(t, http.StatusNotFound, w.Code)

	ds := settings.Defaults()
	ds.DeliveryChargeFixed = money.MustParse("3.00")
	w = s.do(t, http.MethodPut, "/api/v1/admin/settings/delivery", ds, staff)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/settings/delivery", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decode(t, w)["delivery_charge_fixed"])
}

func TestReservationsAndContact(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.users.EnsureStaff(ctx, "kitchen@example.com", "kitchen-pass1")
	require.NoError(t, err)
	staff := bearer(s.token(t, "kitchen@example.com", "kitchen-pass1"))

	w := s.do(t, http.MethodPost, "/api/v1/reservations", gin.H{
		"name":             "Anna",
		"email":            "anna@example.com",
		"phone":            "+31612345678",
		"reservation_date": time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"reservation_time": "19:30",
		"number_of_guests": 4,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "pending", created["status"])

	w = s.do(t, http.MethodPost, "/api/v1/reservations", gin.H{"name": "Anna", "number_of_guests": 2}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", decode(t, w)["field"])

	w = s.do(t, http.MethodPost, "/api/v1/contact", gin.H{
		"name":    "Bram",
		"email":   "bram@example.com",
		"subject": "Allergies",
		"message": "Do you have gluten free bread?",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/admin/reservations", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/admin/reservations?status=pending", nil, staff)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["reservations"], 1)

	w = s.do(t, http.MethodPut, "/api/v1/admin/reservations/1/status", gin.H{"status": "confirmed"}, staff)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(t, http.MethodPut, "/api/v1/admin/reservations/1/status", gin.H{"status": "pending"}, staff)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = s.do(t, http.MethodPut, "/api/v1/admin/reservations/9/status", gin.H{"status": "cancelled"}, staff)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/admin/contact-messages?unread=true", nil, staff)
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["messages"], 1)
	assert.Equal(t, 1.0, data["unread_count"])

	w = s.do(t, http.MethodPut, "/api/v1/admin/contact-messages/1/read", gin.H{"value": true}, staff)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/admin/contact-messages?unread=true", nil, staff)
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)["data"].(map[string]interface{})
	assert.Empty(t, data["messages"])
}
