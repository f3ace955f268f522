// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/catalog"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/pricing"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/settings"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SettingsProvider supplies the active delivery settings, or defaults
type SettingsProvider interface {
	Current(ctx context.Context) settings.DeliverySettings
}

// Service handles order business logic
type Service struct {
	db        *gorm.DB
	settings  SettingsProvider
	publisher EventPublisher
	config    config.RestaurantConfig
	logger    *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, settingsProvider SettingsProvider, publisher EventPublisher, cfg config.RestaurantConfig, logger *logrus.Logger) *Service {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Service{
		db:        db,
		settings:  settingsProvider,
		publisher: publisher,
		config:    cfg,
		logger:    logger,
	}
}

// CreateOrderRequest represents checkout data
type CreateOrderRequest struct {
	OrderType            string             `json:"order_type"`
	PaymentMethod        string             `json:"payment_method"`
	GuestName            string             `json:"guest_name"`
	GuestEmail           string             `json:"guest_email"`
	GuestPhone           string             `json:"guest_phone"`
	TableNumber          *int               `json:"table_number"`
	PreferredPickupTime  string             `json:"preferred_pickup_time"`
	DeliveryAddress      string             `json:"delivery_address"`
	DeliveryCity         string             `json:"delivery_city"`
	DeliveryPostalCode   string             `json:"delivery_postal_code"`
	DeliveryCountry      string             `json:"delivery_country"`
	DeliveryInstructions string             `json:"delivery_instructions"`
	SpecialRequests      string             `json:"special_requests"`
	Items                []OrderItemRequest `json:"items"`
}

// OrderItemRequest is one line of a checkout request
type OrderItemRequest struct {
	ID                  uint         `json:"id"`
	Name                string       `json:"name"`
	Price               money.Amount `json:"price"`
	Quantity            int          `json:"quantity"`
	SpecialInstructions string       `json:"special_instructions"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int         `form:"page,default=1"`
	Limit     int         `form:"limit,default=20"`
	Status    OrderStatus `form:"status"`
	OrderType string      `form:"order_type"`
	UserID    uint        `form:"user_id"`
}

// OrderResponse represents order response with pagination
type OrderResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// zonedPickupLayouts carry their own UTC offset; pickupTimeLayouts are naive.
var zonedPickupLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

var pickupTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parsePickupTime accepts an ISO date-time with a UTC offset (seconds
// optional) or a naive one, which is read in loc.
func parsePickupTime(raw string, loc *time.Location) (*time.Time, error) {
	for _, layout := range zonedPickupLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	for _, layout := range pickupTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.Validation("preferred_pickup_time",
		"Invalid preferred_pickup_time. Use ISO format, e.g. 2024-01-15T14:30")
}

// validate checks a checkout request field by field, reporting the first
// problem. It returns the parsed pickup time, if any.
func (s *Service) validate(req *CreateOrderRequest) (*time.Time, error) {
	required := []struct {
		field string
		value string
	}{
		{"order_type", req.OrderType},
		{"payment_method", req.PaymentMethod},
		{"guest_name", req.GuestName},
		{"guest_phone", req.GuestPhone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, apperrors.Validation(r.field, "Missing required field: %s", r.field)
		}
	}
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("items", "Missing required field: items")
	}

	mode := pricing.Mode(req.OrderType)
	if !mode.IsValid() {
		return nil, apperrors.Validation("order_type",
			"Invalid order type. Must be one of: seated, pickup, delivery")
	}
	if !PaymentMethod(req.PaymentMethod).IsValid() {
		return nil, apperrors.Validation("payment_method",
			"Invalid payment method. Must be one of: cash, stripe, paypal")
	}

	switch mode {
	case pricing.ModeSeated:
		if req.TableNumber == nil || *req.TableNumber <= 0 {
			return nil, apperrors.Validation("table_number", "Table number required for dine-in orders")
		}
	case pricing.ModeDelivery:
		delivery := []struct {
			field string
			value string
		}{
			{"delivery_address", req.DeliveryAddress},
			{"delivery_city", req.DeliveryCity},
			{"delivery_postal_code", req.DeliveryPostalCode},
		}
		for _, r := range delivery {
			if strings.TrimSpace(r.value) == "" {
				return nil, apperrors.Validation(r.field, "Missing delivery field: %s", r.field)
			}
		}
	case pricing.ModePickup:
		if raw := strings.TrimSpace(req.PreferredPickupTime); raw != "" {
			return parsePickupTime(raw, s.config.Location())
		}
	}
	return nil, nil
}

// Create validates and prices a checkout request, then stores the order and
// its items in one transaction. userID comes from the authenticated session
// only. Items whose id is not on the menu are kept with a null menu
// reference and the submitted name and price.
func (s *Service) Create(ctx context.Context, req *CreateOrderRequest, userID *uint) (*Order, error) {
	pickupTime, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	mode := pricing.Mode(req.OrderType)
	lines := make([]pricing.Line, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, pricing.Line{UnitPrice: item.Price, Quantity: item.Quantity})
	}
	ds := s.settings.Current(ctx)
	quote, err := pricing.Calculate(mode, lines, &ds)
	if err != nil {
		return nil, err
	}

	method := PaymentMethod(req.PaymentMethod)
	order := Order{
		UserID:          userID,
		OrderType:       mode,
		Status:          OrderStatusPending,
		GuestName:       strings.TrimSpace(req.GuestName),
		GuestEmail:      strings.TrimSpace(req.GuestEmail),
		GuestPhone:      strings.TrimSpace(req.GuestPhone),
		Subtotal:        quote.Subtotal,
		Tax:             quote.Tax,
		DeliveryCharge:  quote.DeliveryCharge,
		Total:           quote.Total,
		PaymentMethod:   method,
		PaymentStatus:   method.InitialPaymentStatus(),
		SpecialRequests: req.SpecialRequests,
	}

	switch mode {
	case pricing.ModeSeated:
		order.TableNumber = req.TableNumber
	case pricing.ModePickup:
		order.PreferredPickupTime = pickupTime
	case pricing.ModeDelivery:
		order.DeliveryAddress = req.DeliveryAddress
		order.DeliveryCity = req.DeliveryCity
		order.DeliveryPostalCode = req.DeliveryPostalCode
		order.DeliveryCountry = req.DeliveryCountry
		if order.DeliveryCountry == "" {
			order.DeliveryCountry = s.config.DefaultCountry
		}
		order.DeliveryInstructions = req.DeliveryInstructions
	}

	// Start transaction
	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]OrderItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		item := OrderItem{
			OrderID:             order.ID,
			ItemName:            strings.TrimSpace(reqItem.Name),
			ItemPrice:           reqItem.Price,
			Quantity:            reqItem.Quantity,
			SpecialInstructions: reqItem.SpecialInstructions,
		}

		if reqItem.ID != 0 {
			menuItem, err := catalog.Find(tx, reqItem.ID)
			switch {
			case err == nil:
				id := menuItem.ID
				item.MenuItemID = &id
				if item.ItemName == "" {
					item.ItemName = menuItem.Name
				}
			case !apperrors.IsNotFound(err):
				tx.Rollback()
				return nil, err
			}
		}
		if item.ItemName == "" {
			item.ItemName = "Unknown Item"
		}
		items = append(items, item)
	}

	if err := tx.Create(&items).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	history := OrderStatusHistory{
		OrderID:   order.ID,
		Status:    OrderStatusPending,
		Comment:   "Order placed",
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create status history: %w", err)
	}

	// Commit transaction
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	order.Items = items
	order.StatusHistory = []OrderStatusHistory{history}

	s.logger.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"reference":  s.Reference(&order),
		"order_type": order.OrderType,
		"total":      order.Total.String(),
	}).Info("Order created")

	s.publish(ctx, EventOrderCreated, &order)
	return &order, nil
}

// Reference returns the order's human reference, e.g. SIP-000015
func (s *Service) Reference(o *Order) string {
	return Reference(s.config.OrderPrefix, o.ID)
}

// Get retrieves a single order by ID with items and history
func (s *Service) Get(ctx context.Context, id uint) (*Order, error) {
	return s.get(s.db.WithContext(ctx), id)
}

func (s *Service) get(db *gorm.DB, id uint) (*Order, error) {
	var order Order
	result := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Order("id DESC")
		}).
		Where("id = ?", id).
		First(&order)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}

	return &order, nil
}

// GetByReference retrieves an order by its reference or bare number
func (s *Service) GetByReference(ctx context.Context, ref string) (*Order, error) {
	id, err := ParseReference(s.config.OrderPrefix, ref)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// UpdateStatus moves an order along the status state machine and records
// the change. changedBy is the staff member, nil for the system.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status OrderStatus, comment string, changedBy *uint) (*Order, error) {
	if !IsValidStatus(status) {
		return nil, apperrors.Validation("status", "Invalid status: %s", status)
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order Order
	if err := tx.First(&order, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	if !order.CanTransitionTo(status) {
		tx.Rollback()
		return nil, fmt.Errorf("%w: status from %s to %s", apperrors.ErrInvalidTransition, order.Status, status)
	}

	from := order.Status
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status": status,
	}
	if status == OrderStatusCompleted {
		updates["completed_at"] = now
	}

	if err := tx.Model(&order).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if comment == "" {
		comment = fmt.Sprintf("Status changed from %s to %s", from, status)
	}
	history := OrderStatusHistory{
		OrderID:   id,
		Status:    status,
		Comment:   comment,
		CreatedBy: changedBy,
		CreatedAt: now,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create status history: %w", err)
	}

	updated, err := s.get(tx, id)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": id,
		"status":   status,
	}).Info("Order status changed")

	s.publish(ctx, EventStatusChanged, updated)
	return updated, nil
}

// PaymentUpdate carries a payment status change
type PaymentUpdate struct {
	Status    PaymentStatus          `json:"payment_status" binding:"required"`
	PaymentID string                 `json:"payment_id"`
	Details   map[string]interface{} `json:"payment_details"`
}

// UpdatePaymentStatus moves an order along the payment state machine.
// Details are merged into the stored payment metadata.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id uint, update PaymentUpdate) (*Order, error) {
	if !IsValidPaymentStatus(update.Status) {
		return nil, apperrors.Validation("payment_status", "Invalid payment status: %s", update.Status)
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	order, err := s.get(tx, id)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	from := order.PaymentStatus
	if !order.CanPaymentTransitionTo(update.Status) {
		tx.Rollback()
		return nil, fmt.Errorf("%w: payment from %s to %s", apperrors.ErrInvalidTransition, from, update.Status)
	}

	details := order.PaymentDetails
	if details == nil {
		details = make(map[string]interface{})
	}
	for k, v := range update.Details {
		details[k] = v
	}

	updates := map[string]interface{}{
		"payment_status":  update.Status,
		"payment_details": details,
	}
	if update.PaymentID != "" {
		updates["payment_id"] = update.PaymentID
	}

	// The status guard turns a concurrent change into a failed transition.
	result := tx.Model(&Order{}).
		Where("id = ? AND payment_status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, fmt.Errorf("%w: payment from %s to %s", apperrors.ErrInvalidTransition, from, update.Status)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit payment status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":       id,
		"payment_status": update.Status,
	}).Info("Order payment status changed")

	order.PaymentStatus = update.Status
	order.PaymentDetails = details
	if update.PaymentID != "" {
		order.PaymentID = update.PaymentID
	}
	s.publish(ctx, EventPaymentStatusChange, order)
	return order, nil
}

// Recalculate re-derives subtotal, tax and total from the stored items and
// delivery charge. Calling it again without changes is a no-op.
func (s *Service) Recalculate(ctx context.Context, id uint) (*Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	quote := pricing.Recompute(order.Lines(), order.DeliveryCharge)
	if quote.Subtotal == order.Subtotal && quote.Tax == order.Tax && quote.Total == order.Total {
		return order, nil
	}

	oldTotal := order.Total
	updates := map[string]interface{}{
		"subtotal": quote.Subtotal,
		"tax":      quote.Tax,
		"total":    quote.Total,
	}
	if err := s.db.WithContext(ctx).Model(order).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update order totals: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":  id,
		"old_total": oldTotal.String(),
		"new_total": quote.Total.String(),
	}).Warn("Order totals recalculated")

	order.Subtotal = quote.Subtotal
	order.Tax = quote.Tax
	order.Total = quote.Total
	return order, nil
}

// List retrieves orders with filtering and pagination, newest first
func (s *Service) List(ctx context.Context, req *OrderListRequest) (*OrderResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var orders []Order
	var total int64

	query := s.db.WithContext(ctx).Model(&Order{})

	if req.Status != "" {
		if !IsValidStatus(req.Status) {
			return nil, apperrors.Validation("status", "Invalid status: %s", req.Status)
		}
		query = query.Where("status = ?", req.Status)
	}
	if req.OrderType != "" {
		query = query.Where("order_type = ?", req.OrderType)
	}
	if req.UserID > 0 {
		query = query.Where("user_id = ?", req.UserID)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &OrderResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// ListForUser returns an account's order history
func (s *Service) ListForUser(ctx context.Context, userID uint, page, limit int) (*OrderResponse, error) {
	return s.List(ctx, &OrderListRequest{Page: page, Limit: limit, UserID: userID})
}

// ListByStatus returns orders in one status, for the back-office feed
func (s *Service) ListByStatus(ctx context.Context, status OrderStatus, page, limit int) (*OrderResponse, error) {
	return s.List(ctx, &OrderListRequest{Page: page, Limit: limit, Status: status})
}

func (s *Service) publish(ctx context.Context, eventType string, o *Order) {
	event := Event{
		Type:          eventType,
		OrderID:       o.ID,
		Reference:     s.Reference(o),
		OrderType:     string(o.OrderType),
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Total:         o.Total,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"order_id": o.ID,
			"event":    eventType,
		}).Warn("Failed to publish order event")
	}
}
