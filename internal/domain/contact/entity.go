// internal/domain/contact/entity.go
package contact

import "time"

// Message is a contact form submission. Staff mark it read once handled.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:200" json:"name"`
	Email     string    `gorm:"not null;size:254" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Subject   string    `gorm:"not null;size:300" json:"subject"`
	Body      string    `gorm:"column:message;type:text;not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Message) TableName() string { return "contact_messages" }
