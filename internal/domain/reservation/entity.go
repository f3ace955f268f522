// internal/domain/reservation/entity.go
package reservation

import (
	"time"
)

// Status is the state of a table reservation request
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// DateLayout and TimeLayout are the wire and storage formats of the
// requested slot.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// MaxGuests bounds the party size of a single request
const MaxGuests = 50

// Reservation is a table booking request left by a customer. Staff confirm
// or cancel it from the back office.
type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null;size:200" json:"name"`
	Email           string    `gorm:"not null;size:254" json:"email"`
	Phone           string    `gorm:"not null;size:20" json:"phone"`
	ReservationDate string    `gorm:"not null;size:10;index" json:"reservation_date"` // YYYY-MM-DD
	ReservationTime string    `gorm:"not null;size:5" json:"reservation_time"`        // HH:MM
	NumberOfGuests  int       `gorm:"not null" json:"number_of_guests"`
	SpecialRequests string    `gorm:"type:text" json:"special_requests"`
	Status          Status    `gorm:"not null;size:20;default:'pending';index" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName overrides
func (Reservation) TableName() string { return "reservations" }

var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
}

// IsValidStatus reports whether s is a known reservation status
func IsValidStatus(s Status) bool {
	_, open := validTransitions[s]
	return open || s == StatusCancelled
}

// CanTransitionTo checks the reservation state machine. Cancelled is final.
func (r *Reservation) CanTransitionTo(to Status) bool {
	for _, status := range validTransitions[r.Status] {
		if status == to {
			return true
		}
	}
	return false
}

// Slot returns the requested date and time in loc
func (r *Reservation) Slot(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, r.ReservationDate+" "+r.ReservationTime, loc)
}
