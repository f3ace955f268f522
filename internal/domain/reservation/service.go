// internal/domain/reservation/service.go
package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service handles reservation requests
type Service struct {
	db       *gorm.DB
	location *time.Location
	now      func() time.Time
	logger   *logrus.Logger
}

// NewService creates a new reservation service. Dates are interpreted in the
// restaurant's time zone.
func NewService(db *gorm.DB, cfg config.RestaurantConfig, logger *logrus.Logger) *Service {
	return &Service{
		db:       db,
		location: cfg.Location(),
		now:      time.Now,
		logger:   logger,
	}
}

// CreateRequest represents a reservation form submission
type CreateRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
	NumberOfGuests  int    `json:"number_of_guests"`
	SpecialRequests string `json:"special_requests"`
}

// ListRequest represents reservation list query parameters
type ListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Status Status `form:"status"`
	Date   string `form:"date"`
}

// ListResponse is a page of reservations, newest first
type ListResponse struct {
	Reservations []Reservation `json:"reservations"`
	Total        int64         `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	TotalPages   int           `json:"total_pages"`
}

var timeLayouts = []string{TimeLayout, "15:04:05"}

// Create validates and stores a new pending reservation
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Reservation, error) {
	required := []struct {
		field string
		value string
	}{
		{"name", req.Name},
		{"email", req.Email},
		{"phone", req.Phone},
		{"reservation_date", req.ReservationDate},
		{"reservation_time", req.ReservationTime},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, apperrors.Validation(r.field, "Missing required field: %s", r.field)
		}
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		return nil, apperrors.Validation("email", "A valid email is required")
	}
	if req.NumberOfGuests < 1 || req.NumberOfGuests > MaxGuests {
		return nil, apperrors.Validation("number_of_guests", "Number of guests must be between 1 and %d", MaxGuests)
	}

	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(req.ReservationDate), s.location)
	if err != nil {
		return nil, apperrors.Validation("reservation_date", "Invalid reservation_date. Use YYYY-MM-DD")
	}
	var clock time.Time
	for _, layout := range timeLayouts {
		if clock, err = time.Parse(layout, strings.TrimSpace(req.ReservationTime)); err == nil {
			break
		}
	}
	if err != nil {
		return nil, apperrors.Validation("reservation_time", "Invalid reservation_time. Use HH:MM")
	}

	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	if date.Before(today) {
		return nil, apperrors.Validation("reservation_date", "Reservation date cannot be in the past")
	}

	r := Reservation{
		Name:            strings.TrimSpace(req.Name),
		Email:           email,
		Phone:           strings.TrimSpace(req.Phone),
		ReservationDate: date.Format(DateLayout),
		ReservationTime: clock.Format(TimeLayout),
		NumberOfGuests:  req.NumberOfGuests,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		Status:          StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": r.ID,
		"date":           r.ReservationDate,
		"time":           r.ReservationTime,
		"guests":         r.NumberOfGuests,
	}).Info("Reservation requested")

	return &r, nil
}

// Get retrieves a reservation by id
func (s *Service) Get(ctx context.Context, id uint) (*Reservation, error) {
	var r Reservation
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reservation %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve reservation: %w", err)
	}
	return &r, nil
}

// List returns reservations newest first, optionally filtered by status and
// requested date.
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Status != "" && !IsValidStatus(req.Status) {
		return nil, apperrors.Validation("status", "Invalid status: %s", req.Status)
	}

	query := s.db.WithContext(ctx).Model(&Reservation{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Date != "" {
		query = query.Where("reservation_date = ?", req.Date)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}

	reservations := make([]Reservation, 0)
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(req.Limit).Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reservations: %w", err)
	}

	return &ListResponse{
		Reservations: reservations,
		Total:        total,
		Page:         req.Page,
		Limit:        req.Limit,
		TotalPages:   int((total + int64(req.Limit) - 1) / int64(req.Limit)),
	}, nil
}

// UpdateStatus confirms or cancels a reservation
func (s *Service) UpdateStatus(ctx context.Context, id uint, status Status) (*Reservation, error) {
	if !IsValidStatus(status) {
		return nil, apperrors.Validation("status", "Invalid status: %s", status)
	}

	var updated Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reservation %d: %w", id, apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to retrieve reservation: %w", err)
		}
		if !updated.CanTransitionTo(status) {
			return fmt.Errorf("%w: reservation from %s to %s", apperrors.ErrInvalidTransition, updated.Status, status)
		}

		result := tx.Model(&Reservation{}).
			Where("id = ? AND status = ?", id, updated.Status).
			Update("status", status)
		if result.Error != nil {
			return fmt.Errorf("failed to update reservation status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: reservation from %s to %s", apperrors.ErrInvalidTransition, updated.Status, status)
		}
		updated.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": id,
		"status":         status,
	}).Info("Reservation status changed")

	return &updated, nil
}
