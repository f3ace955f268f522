// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/domain/pricing"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
	"gorm.io/datatypes"
)

// Entry is one menu item waiting in a cart
type Entry struct {
	ID       uint              `json:"id"` // Menu item ID
	Name     string            `json:"name"`
	Price    money.Amount      `json:"price"` // Captured unit price
	Quantity int               `json:"quantity"`
	Metadata map[string]string `json:"metadata,omitempty"`
	AddedAt  time.Time         `json:"added_at"`
}

// Subtotal returns price times quantity
func (e Entry) Subtotal() money.Amount {
	return e.Price.Times(e.Quantity)
}

// Owner identifies whose cart is addressed: an account when UserID is set,
// otherwise the guest session.
type Owner struct {
	UserID    *uint
	SessionID string
}

// IsGuest reports whether the owner is an anonymous session
func (o Owner) IsGuest() bool {
	return o.UserID == nil
}

// Cart is the collection of entries of one session or one account
type Cart struct {
	ID        uint      `json:"-"`
	SessionID string    `json:"session_id,omitempty"`
	UserID    *uint     `json:"user_id,omitempty"`
	Entries   []Entry   `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Find returns the index of the entry with id, or -1
func (c *Cart) Find(id uint) int {
	for i := range c.Entries {
		if c.Entries[i].ID == id {
			return i
		}
	}
	return -1
}

// merge adds e to the cart, summing quantities when the id is present.
// The summed quantity is capped at pricing.MaxQuantity.
func (c *Cart) merge(e Entry) {
	if i := c.Find(e.ID); i >= 0 {
		c.Entries[i].Quantity += e.Quantity
		if c.Entries[i].Quantity > pricing.MaxQuantity {
			c.Entries[i].Quantity = pricing.MaxQuantity
		}
		c.Entries[i].Price = e.Price
		if e.Name != "" {
			c.Entries[i].Name = e.Name
		}
		for k, v := range e.Metadata {
			if c.Entries[i].Metadata == nil {
				c.Entries[i].Metadata = make(map[string]string)
			}
			c.Entries[i].Metadata[k] = v
		}
		return
	}
	c.Entries = append(c.Entries, e)
}

// Totals summarises a cart. Total includes VAT, never delivery.
type Totals struct {
	ItemCount int          `json:"item_count"`     // Number of distinct entries
	Quantity  int          `json:"total_quantity"` // Sum of all quantities
	Subtotal  money.Amount `json:"subtotal"`
	Tax       money.Amount `json:"tax"`
	Total     money.Amount `json:"total"`
}

// Record is the persisted form of a cart. Entries are kept denormalized in
// a JSON column; a cart belongs to either one session or one user.
type Record struct {
	ID         uint                        `gorm:"primaryKey"`
	SessionKey *string                     `gorm:"uniqueIndex;size:64"`
	UserID     *uint                       `gorm:"uniqueIndex"`
	Entries    datatypes.JSONType[[]Entry] `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the table name
func (Record) TableName() string {
	return "carts"
}
