// internal/domain/user/admin.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// UserListRequest represents account list query parameters
type UserListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Search string `form:"search"`
	Role   string `form:"role"` // staff, customer, all
}

// UserListResponse represents an account list with pagination
type UserListResponse struct {
	Users      []UserWithStats `json:"users"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// UserWithStats represents an account with its order history totals
type UserWithStats struct {
	User
	OrderCount int64        `json:"order_count"`
	TotalSpent money.Amount `json:"total_spent"`
}

// ListUsers retrieves accounts with filtering and pagination
func (s *Service) ListUsers(ctx context.Context, req *UserListRequest) (*UserListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	db := s.db.WithContext(ctx)
	query := db.Model(&User{})

	if req.Search != "" {
		searchTerm := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}

	switch req.Role {
	case "staff":
		query = query.Where("is_staff = ?", true)
	case "customer":
		query = query.Where("is_staff = ?", false)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []User
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}

	usersWithStats := make([]UserWithStats, 0, len(users))
	for _, u := range users {
		stats, err := s.userStats(db, u.ID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", u.ID).Warn("Failed to load order stats")
			stats = &UserWithStats{}
		}
		stats.User = u
		usersWithStats = append(usersWithStats, *stats)
	}

	return &UserListResponse{
		Users:      usersWithStats,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: int((total + int64(req.Limit) - 1) / int64(req.Limit)),
	}, nil
}

// userStats sums the account's non-cancelled orders
func (s *Service) userStats(db *gorm.DB, userID uint) (*UserWithStats, error) {
	var row struct {
		OrderCount int64
		TotalSpent int64
	}
	err := db.Model(&order.Order{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS total_spent").
		Where("user_id = ? AND status <> ?", userID, order.OrderStatusCancelled).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &UserWithStats{OrderCount: row.OrderCount, TotalSpent: money.FromCents(row.TotalSpent)}, nil
}

// SetActive enables or disables an account. Staff cannot disable themselves.
func (s *Service) SetActive(ctx context.Context, userID uint, active bool, actorID uint) error {
	if userID == actorID && !active {
		return apperrors.Validation("is_active", "Cannot deactivate your own account")
	}
	return s.setFlag(ctx, userID, "is_active", active)
}

// SetStaff grants or revokes staff rights. At least one staff account must
// remain.
func (s *Service) SetStaff(ctx context.Context, userID uint, staff bool, actorID uint) error {
	if userID == actorID && !staff {
		return apperrors.Validation("is_staff", "Cannot remove your own staff rights")
	}
	if !staff {
		var others int64
		if err := s.db.WithContext(ctx).Model(&User{}).
			Where("is_staff = ? AND id <> ?", true, userID).
			Count(&others).Error; err != nil {
			return fmt.Errorf("failed to count staff: %w", err)
		}
		if others == 0 {
			return apperrors.Validation("is_staff", "At least one staff account must remain")
		}
	}
	return s.setFlag(ctx, userID, "is_staff", staff)
}

func (s *Service) setFlag(ctx context.Context, userID uint, column string, value bool) error {
	result := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

// EnsureStaff creates the staff account for email if none exists, or grants
// staff rights to an existing account. Used to bootstrap the kitchen login.
func (s *Service) EnsureStaff(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)
	db := s.db.WithContext(ctx)

	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		if !existing.IsStaff || !existing.IsActive {
			if err := db.Model(&existing).Updates(map[string]interface{}{"is_staff": true, "is_active": true}).Error; err != nil {
				return nil, fmt.Errorf("failed to promote staff: %w", err)
			}
		}
		return &existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to find staff: %w", err)
	}

	hashedPassword, err := s.passwordManager.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash staff password: %w", err)
	}

	staff := User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: "Staff",
		IsActive:  true,
		IsStaff:   true,
	}
	if err := db.Create(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}

	s.logger.WithField("email", email).Info("Staff account created")
	return &staff, nil
}
