// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/catalog"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/pricing"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ItemLookup resolves menu items by ID
type ItemLookup interface {
	Get(ctx context.Context, id uint) (*catalog.MenuItem, error)
}

// Service handles cart business logic
type Service struct {
	users  Store
	guests Store
	items  ItemLookup
	logger *logrus.Logger
}

// NewService creates a new cart service. Account carts live in the database;
// guest carts live in Redis when a client is given, otherwise in the database
// keyed by session.
func NewService(db *gorm.DB, redisClient *redis.Client, items ItemLookup, cfg config.CartConfig, logger *logrus.Logger) *Service {
	users := NewDBStore(db)
	var guests Store = users
	if redisClient != nil {
		guests = NewRedisStore(redisClient, cfg.GuestTTL)
	}
	return NewServiceWithStores(users, guests, items, logger)
}

// NewServiceWithStores creates a cart service over explicit stores
func NewServiceWithStores(users, guests Store, items ItemLookup, logger *logrus.Logger) *Service {
	return &Service{
		users:  users,
		guests: guests,
		items:  items,
		logger: logger,
	}
}

func (s *Service) store(owner Owner) (Store, error) {
	if owner.IsGuest() {
		if owner.SessionID == "" {
			return nil, apperrors.Validation("session", "Session ID required for guest cart")
		}
		return s.guests, nil
	}
	return s.users, nil
}

// Get retrieves the owner's cart
func (s *Service) Get(ctx context.Context, owner Owner) (*Cart, error) {
	st, err := s.store(owner)
	if err != nil {
		return nil, err
	}
	return st.Load(ctx, owner)
}

// Add puts an entry into the cart. Adding an id already present increases
// its quantity. When the id is on the menu, the menu's name and price are
// captured; otherwise the given ones are kept.
func (s *Service) Add(ctx context.Context, owner Owner, entry Entry) (*Cart, error) {
	if entry.Quantity < 1 {
		return nil, apperrors.Validation("quantity", "Quantity must be at least 1")
	}
	if entry.Quantity > pricing.MaxQuantity {
		return nil, apperrors.Validation("quantity", "Quantity cannot exceed %d", pricing.MaxQuantity)
	}

	item, err := s.items.Get(ctx, entry.ID)
	switch {
	case err == nil:
		if !item.IsActive {
			return nil, apperrors.Validation("id", "%s is not available", item.Name)
		}
		entry.Name = item.Name
		entry.Price = item.Price
	case apperrors.IsNotFound(err):
		if entry.Name == "" {
			return nil, apperrors.Validation("name", "Missing required field: name")
		}
	default:
		return nil, err
	}
	if entry.Price < 0 {
		return nil, apperrors.Validation("price", "Price cannot be negative")
	}
	if entry.Price > pricing.MaxUnitPrice {
		return nil, apperrors.Validation("price", "Price is too large")
	}

	st, err := s.store(owner)
	if err != nil {
		return nil, err
	}
	c, err := st.Load(ctx, owner)
	if err != nil {
		return nil, err
	}

	if i := c.Find(entry.ID); i >= 0 && c.Entries[i].Quantity+entry.Quantity > pricing.MaxQuantity {
		return nil, apperrors.Validation("quantity", "Quantity cannot exceed %d", pricing.MaxQuantity)
	}

	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now().UTC()
	}
	c.merge(entry)

	if err := st.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Remove drops every entry with id. Removing an absent id is not an error.
func (s *Service) Remove(ctx context.Context, owner Owner, id uint) (*Cart, error) {
	st, err := s.store(owner)
	if err != nil {
		return nil, err
	}
	c, err := st.Load(ctx, owner)
	if err != nil {
		return nil, err
	}

	kept := c.Entries[:0]
	for _, e := range c.Entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(c.Entries) {
		return c, nil
	}
	c.Entries = kept

	if err := st.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, owner Owner) error {
	st, err := s.store(owner)
	if err != nil {
		return err
	}
	return st.Delete(ctx, owner)
}

// Merge moves a guest cart into the account cart, summing quantities of
// shared ids, and clears the guest cart. Used at login.
func (s *Service) Merge(ctx context.Context, userID uint, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	guestOwner := Owner{SessionID: sessionID}
	guest, err := s.guests.Load(ctx, guestOwner)
	if err != nil {
		return err
	}
	if len(guest.Entries) == 0 {
		return nil
	}

	userOwner := Owner{UserID: &userID}
	account, err := s.users.Load(ctx, userOwner)
	if err != nil {
		return err
	}
	for _, e := range guest.Entries {
		account.merge(e)
	}
	if err := s.users.Save(ctx, account); err != nil {
		return fmt.Errorf("failed to merge guest cart: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"entries": len(guest.Entries),
	}).Info("Merged guest cart into account cart")

	return s.guests.Delete(ctx, guestOwner)
}

// Total sums the cart. The total always includes VAT at pricing.TaxRate.
func Total(c *Cart) Totals {
	t := Totals{ItemCount: len(c.Entries)}
	lines := make([]pricing.Line, 0, len(c.Entries))
	for _, e := range c.Entries {
		t.Quantity += e.Quantity
		lines = append(lines, pricing.Line{UnitPrice: e.Price, Quantity: e.Quantity})
	}
	t.Subtotal = pricing.Sum(lines)
	t.Tax = pricing.TaxOn(t.Subtotal)
	t.Total = t.Subtotal + t.Tax
	return t
}
