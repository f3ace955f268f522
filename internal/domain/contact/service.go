// internal/domain/contact/service.go
package contact

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Field limits, matching the column sizes
const (
	maxName    = 200
	maxPhone   = 20
	maxSubject = 300
)

// Service stores and lists contact form messages
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new contact service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// CreateRequest represents a contact form submission
type CreateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ListRequest represents message list query parameters
type ListRequest struct {
	Page   int  `form:"page,default=1"`
	Limit  int  `form:"limit,default=20"`
	Unread bool `form:"unread"`
}

// ListResponse is a page of messages, newest first
type ListResponse struct {
	Messages    []Message `json:"messages"`
	Total       int64     `json:"total"`
	UnreadCount int64     `json:"unread_count"`
	Page        int       `json:"page"`
	Limit       int       `json:"limit"`
	TotalPages  int       `json:"total_pages"`
}

// Create validates and stores a message
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Message, error) {
	msg := Message{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Body:    strings.TrimSpace(req.Message),
	}

	required := []struct {
		field string
		value string
	}{
		{"name", msg.Name},
		{"email", msg.Email},
		{"subject", msg.Subject},
		{"message", msg.Body},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, apperrors.Validation(r.field, "Missing required field: %s", r.field)
		}
	}

	switch {
	case !strings.Contains(msg.Email, "@"):
		return nil, apperrors.Validation("email", "A valid email is required")
	case utf8.RuneCountInString(msg.Name) > maxName:
		return nil, apperrors.Validation("name", "Name cannot exceed %d characters", maxName)
	case utf8.RuneCountInString(msg.Phone) > maxPhone:
		return nil, apperrors.Validation("phone", "Phone cannot exceed %d characters", maxPhone)
	case utf8.RuneCountInString(msg.Subject) > maxSubject:
		return nil, apperrors.Validation("subject", "Subject cannot exceed %d characters", maxSubject)
	}

	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact message: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"message_id": msg.ID,
		"subject":    msg.Subject,
	}).Info("Contact message received")

	return &msg, nil
}

// List returns messages newest first. Unread limits the page to messages
// nobody has marked read yet.
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	db := s.db.WithContext(ctx)
	query := db.Model(&Message{})
	if req.Unread {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count contact messages: %w", err)
	}
	var unread int64
	if err := db.Model(&Message{}).Where("is_read = ?", false).Count(&unread).Error; err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}

	messages := make([]Message, 0)
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(req.Limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve contact messages: %w", err)
	}

	return &ListResponse{
		Messages:    messages,
		Total:       total,
		UnreadCount: unread,
		Page:        req.Page,
		Limit:       req.Limit,
		TotalPages:  int((total + int64(req.Limit) - 1) / int64(req.Limit)),
	}, nil
}

// SetRead marks a message read or unread
func (s *Service) SetRead(ctx context.Context, id uint, read bool) error {
	result := s.db.WithContext(ctx).Model(&Message{}).Where("id = ?", id).Update("is_read", read)
	if result.Error != nil {
		return fmt.Errorf("failed to update contact message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("contact message %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
