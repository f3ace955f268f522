// internal/domain/settings/service.go
package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service provides the active delivery and payment settings
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new settings service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// Lookup returns the active settings row, or an error wrapping
// apperrors.ErrNotFound when none exists.
func (s *Service) Lookup(ctx context.Context) (*DeliverySettings, error) {
	var ds DeliverySettings
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id DESC").
		First(&ds).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("delivery settings: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load delivery settings: %w", err)
	}
	return &ds, nil
}

// Current returns the active settings, substituting Defaults when no row
// exists or the lookup fails. It never returns an error.
func (s *Service) Current(ctx context.Context) DeliverySettings {
	ds, err := s.Lookup(ctx)
	if err != nil {
		entry := s.logger.WithError(err)
		if apperrors.IsNotFound(err) {
			entry.Debug("No delivery settings configured, using defaults")
		} else {
			entry.Warn("Delivery settings unavailable, using defaults")
		}
		return Defaults()
	}
	return *ds
}

// Save stores ds as the single active settings row, deactivating any
// previous one in the same transaction.
func (s *Service) Save(ctx context.Context, ds *DeliverySettings) error {
	if err := ds.validate(); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&DeliverySettings{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate delivery settings: %w", err)
		}

		ds.ID = 0
		ds.Active = true
		if err := tx.Create(ds).Error; err != nil {
			return fmt.Errorf("failed to save delivery settings: %w", err)
		}
		return nil
	})
}

// EnabledPaymentMethods lists cash followed by every enabled card gateway.
func (s *Service) EnabledPaymentMethods(ctx context.Context) ([]string, error) {
	var gateways []PaymentSettings
	if err := s.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("gateway ASC").
		Find(&gateways).Error; err != nil {
		return nil, fmt.Errorf("failed to load payment settings: %w", err)
	}

	methods := []string{"cash"}
	for _, g := range gateways {
		methods = append(methods, g.Gateway)
	}
	return methods, nil
}

func (ds *DeliverySettings) validate() error {
	if ds.DeliveryChargeFixed < 0 {
		return apperrors.Validation("delivery_charge_fixed", "Fixed delivery charge cannot be negative")
	}
	if ds.DeliveryChargePercent.IsNegative() {
		return apperrors.Validation("delivery_charge_percent", "Delivery charge percentage cannot be negative")
	}
	if ds.EstimatedPickupMinutes < 0 || ds.EstimatedDeliveryMinutes < 0 {
		return apperrors.Validation("estimated_time", "Estimated times cannot be negative")
	}
	for field, v := range map[string]string{
		"delivery_start_time": ds.DeliveryStartTime,
		"delivery_end_time":   ds.DeliveryEndTime,
		"pickup_start_time":   ds.PickupStartTime,
		"pickup_end_time":     ds.PickupEndTime,
	} {
		if _, err := time.Parse("15:04", v); err != nil {
			return apperrors.Validation(field, "Invalid %s, expected HH:MM", field)
		}
	}
	return nil
}
