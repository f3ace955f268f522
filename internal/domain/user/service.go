// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/auth"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Login and Refresh when the account
// cannot be authenticated.
var ErrInvalidCredentials = errors.New("invalid email or password")

// CartMerger folds a guest session cart into an account cart
type CartMerger interface {
	Merge(ctx context.Context, userID uint, sessionID string) error
}

// Service handles account business logic
type Service struct {
	db              *gorm.DB
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	carts           CartMerger
	defaultCountry  string
	logger          *logrus.Logger
}

// NewService creates a new account service. carts may be nil.
func NewService(db *gorm.DB, cfg *config.Config, jwtManager *auth.JWTManager, carts CartMerger, logger *logrus.Logger) *Service {
	return &Service{
		db:              db,
		passwordManager: auth.NewPasswordManager(cfg.Security.BcryptCost),
		jwtManager:      jwtManager,
		carts:           carts,
		defaultCountry:  cfg.Restaurant.DefaultCountry,
		logger:          logger,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate carries the editable profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	FirstName              *string `json:"first_name"`
	LastName               *string `json:"last_name"`
	Phone                  *string `json:"phone"`
	DeliveryAddress        *string `json:"delivery_address"`
	DeliveryCity           *string `json:"delivery_city"`
	DeliveryPostalCode     *string `json:"delivery_postal_code"`
	DeliveryCountry        *string `json:"delivery_country"`
	PreferredPaymentMethod *string `json:"preferred_payment_method"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a customer account with an empty profile
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	firstName := strings.TrimSpace(req.FirstName)

	switch {
	case email == "" || !strings.Contains(email, "@"):
		return nil, apperrors.Validation("email", "A valid email is required")
	case firstName == "":
		return nil, apperrors.Validation("first_name", "First name is required")
	case req.Password == "":
		return nil, apperrors.Validation("password", "Password is required")
	case req.Password != req.ConfirmPassword:
		return nil, apperrors.Validation("password_confirm", "Passwords do not match")
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.Validation("password", "%s", err.Error())
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, apperrors.Validation("email", "This email is already registered")
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: firstName,
		LastName:  strings.TrimSpace(req.LastName),
		IsActive:  true,
		Profile: &CustomerProfile{
			Phone:                  strings.TrimSpace(req.Phone),
			DeliveryCountry:        s.defaultCountry,
			PreferredPaymentMethod: order.PaymentMethodCash,
		},
	}

	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("Customer registered")

	return s.issue(db, &user)
}

// Login authenticates a user. When sessionID names a guest cart it is merged
// into the account cart; merge failures are logged and do not fail the login.
func (s *Service) Login(ctx context.Context, req *LoginRequest, sessionID string) (*AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.Validation("email", "Email and password are required")
	}

	db := s.db.WithContext(ctx)

	var user User
	if err := db.Where("email = ? AND is_active = ?", email, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, user.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if sessionID != "" && s.carts != nil {
		if err := s.carts.Merge(ctx, user.ID, sessionID); err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to merge guest cart on login")
		}
	}

	return s.issue(db, &user)
}

// Refresh exchanges a refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	db := s.db.WithContext(ctx)

	var user User
	if err := db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return s.issue(db, &user)
}

func (s *Service) issue(db *gorm.DB, user *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.IsStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	if err := db.Model(&User{}).Where("id = ?", user.ID).Update("last_login_at", now).Error; err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}
	user.LastLoginAt = &now

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessExpiry().Seconds()),
	}, nil
}

// GetProfile returns the user with its profile, creating an empty profile
// for accounts that predate profiles.
func (s *Service) GetProfile(ctx context.Context, userID uint) (*User, error) {
	db := s.db.WithContext(ctx)

	var user User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	profile, err := s.profile(db, userID)
	if err != nil {
		return nil, err
	}
	user.Profile = profile
	return &user, nil
}

func (s *Service) profile(db *gorm.DB, userID uint) (*CustomerProfile, error) {
	profile := CustomerProfile{
		UserID:                 userID,
		DeliveryCountry:        s.defaultCountry,
		PreferredPaymentMethod: order.PaymentMethodCash,
	}
	if err := db.Where(CustomerProfile{UserID: userID}).FirstOrCreate(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile applies the given fields. An empty country and an unknown
// payment method are ignored.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, req *ProfileUpdate) (*User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		names := map[string]interface{}{}
		if req.FirstName != nil && strings.TrimSpace(*req.FirstName) != "" {
			names["first_name"] = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			names["last_name"] = strings.TrimSpace(*req.LastName)
		}
		if len(names) > 0 {
			if err := tx.Model(&User{}).Where("id = ?", userID).Updates(names).Error; err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}

		p := user.Profile
		if req.Phone != nil {
			p.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.DeliveryAddress != nil {
			p.DeliveryAddress = strings.TrimSpace(*req.DeliveryAddress)
		}
		if req.DeliveryCity != nil {
			p.DeliveryCity = strings.TrimSpace(*req.DeliveryCity)
		}
		if req.DeliveryPostalCode != nil {
			p.DeliveryPostalCode = strings.TrimSpace(*req.DeliveryPostalCode)
		}
		if req.DeliveryCountry != nil && strings.TrimSpace(*req.DeliveryCountry) != "" {
			p.DeliveryCountry = strings.TrimSpace(*req.DeliveryCountry)
		}
		if req.PreferredPaymentMethod != nil {
			if m := order.PaymentMethod(*req.PreferredPaymentMethod); m.IsValid() {
				p.PreferredPaymentMethod = m
			}
		}
		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}
