// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
	"gorm.io/gorm"
)

// User represents a customer or staff account
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string         `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	FirstName   string         `gorm:"size:100" json:"first_name"`
	LastName    string         `gorm:"size:100" json:"last_name"`
	IsActive    bool           `json:"is_active"`
	IsStaff     bool           `json:"is_staff"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Profile *CustomerProfile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"profile,omitempty"`
}

// CustomerProfile holds the contact and delivery details used to prefill
// checkout.
type CustomerProfile struct {
	ID                     uint                `gorm:"primaryKey" json:"-"`
	UserID                 uint                `gorm:"uniqueIndex;not null" json:"-"`
	Phone                  string              `gorm:"size:20" json:"phone"`
	DeliveryAddress        string              `gorm:"type:text" json:"delivery_address"`
	DeliveryCity           string              `gorm:"size:100" json:"delivery_city"`
	DeliveryPostalCode     string              `gorm:"size:20" json:"delivery_postal_code"`
	DeliveryCountry        string              `gorm:"size:100" json:"delivery_country"`
	PreferredPaymentMethod order.PaymentMethod `gorm:"size:20" json:"preferred_payment_method"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for CustomerProfile
func (CustomerProfile) TableName() string {
	return "customer_profiles"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// GetDisplayName returns display name (full name or email)
func (u *User) GetDisplayName() string {
	if fullName := u.GetFullName(); fullName != "" {
		return fullName
	}
	return u.Email
}
