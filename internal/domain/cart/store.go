// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store persists whole carts. Save replaces the stored entry collection, so
// two concurrent writers on the same cart resolve as last-writer-wins.
type Store interface {
	Load(ctx context.Context, owner Owner) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, owner Owner) error
}

// DBStore keeps carts in the carts table
type DBStore struct {
	db *gorm.DB
}

// NewDBStore creates a database backed cart store
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) scope(ctx context.Context, owner Owner) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&Record{})
	if owner.UserID != nil {
		return q.Where("user_id = ?", *owner.UserID)
	}
	return q.Where("session_key = ?", owner.SessionID)
}

// Load returns the owner's cart, or an empty unsaved cart
func (s *DBStore) Load(ctx context.Context, owner Owner) (*Cart, error) {
	var rec Record
	err := s.scope(ctx, owner).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newCart(owner), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	c := &Cart{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Entries:   rec.Entries.Data(),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.SessionKey != nil {
		c.SessionID = *rec.SessionKey
	}
	if c.Entries == nil {
		c.Entries = []Entry{}
	}
	return c, nil
}

// Save writes the cart, creating its row on first use
func (s *DBStore) Save(ctx context.Context, c *Cart) error {
	rec := Record{
		ID:        c.ID,
		UserID:    c.UserID,
		Entries:   datatypes.NewJSONType(c.Entries),
		CreatedAt: c.CreatedAt,
	}
	if c.UserID == nil {
		key := c.SessionID
		rec.SessionKey = &key
	}

	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	c.ID = rec.ID
	c.CreatedAt = rec.CreatedAt
	c.UpdatedAt = rec.UpdatedAt
	return nil
}

// Delete removes the owner's cart row
func (s *DBStore) Delete(ctx context.Context, owner Owner) error {
	if err := s.scope(ctx, owner).Delete(&Record{}).Error; err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// RedisStore keeps guest carts in Redis with a sliding expiry
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis backed guest cart store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// Load returns the session cart, or an empty one if none is stored
func (s *RedisStore) Load(ctx context.Context, owner Owner) (*Cart, error) {
	data, err := s.client.Get(ctx, sessionKey(owner.SessionID)).Bytes()
	if err == redis.Nil {
		return newCart(owner), nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to retrieve guest cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode guest cart: %w", err)
	}
	if c.Entries == nil {
		c.Entries = []Entry{}
	}
	return &c, nil
}

// Save writes the session cart and refreshes its expiry
func (s *RedisStore) Save(ctx context.Context, c *Cart) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(c.SessionID), data, s.ttl).Err()
}

// Delete drops the session cart
func (s *RedisStore) Delete(ctx context.Context, owner Owner) error {
	return s.client.Del(ctx, sessionKey(owner.SessionID)).Err()
}

func newCart(owner Owner) *Cart {
	return &Cart{
		SessionID: owner.SessionID,
		UserID:    owner.UserID,
		Entries:   []Entry{},
	}
}
