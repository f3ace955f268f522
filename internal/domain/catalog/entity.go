// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Category groups menu items on the menu page
type Category string

const (
	CategoryAppetizers  Category = "appetizers"
	CategoryMainCourses Category = "main_courses"
	CategoryDesserts    Category = "desserts"
	CategoryBeverages   Category = "beverages"
	CategoryDrinks      Category = "drinks"
)

// Categories lists every category in menu display order.
var Categories = []Category{
	CategoryAppetizers,
	CategoryMainCourses,
	CategoryDesserts,
	CategoryBeverages,
	CategoryDrinks,
}

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MenuItem represents an orderable item of the menu
type MenuItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:200" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    Category       `gorm:"not null;size:20;index" json:"category"`
	Price       money.Amount   `gorm:"not null" json:"price"` // In cents
	ImageURL    string         `gorm:"size:500" json:"image_url,omitempty"`
	IsActive    bool           `gorm:"not null;index" json:"is_active"`
	SortOrder   int            `gorm:"not null" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (MenuItem) TableName() string {
	return "menu_items"
}
