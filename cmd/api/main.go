// cmd/api/main.go
package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/cart"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/catalog"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/chatbot"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/contact"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/reservation"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/settings"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/user"
	"github.com/sip-sunshine/restaurant-backend/internal/infrastructure/database/postgres"
	"github.com/sip-sunshine/restaurant-backend/internal/infrastructure/database/redis"
	"github.com/sip-sunshine/restaurant-backend/internal/infrastructure/messaging/kafka"
	"github.com/sip-sunshine/restaurant-backend/internal/interfaces/http"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/auth"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/email"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/logger"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/pdf"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/qrcode"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging)
	appLogger.WithField("environment", cfg.App.Environment).
		Infof("Starting %s v%s", cfg.App.Name, cfg.App.Version)

	db, err := postgres.NewConnection(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient, err := redis.NewConnection(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	healthCtx, cancelHealth := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.Health(healthCtx); err != nil {
		appLogger.WithError(err).Fatal("Database health check failed")
	}
	if err := redisClient.Health(healthCtx); err != nil {
		appLogger.WithError(err).Fatal("Redis health check failed")
	}
	cancelHealth()

	migration := postgres.NewMigration(db.GetDB(), appLogger)

	if err := migration.RunAutoMigrations(); err != nil {
		appLogger.WithError(err).Fatal("Database migration failed")
	}

	if err := migration.CreateIndexes(); err != nil {
		appLogger.WithError(err).Warn("Index creation failed")
	}

	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			appLogger.WithError(err).Warn("Data seeding failed")
		}
	}

	publisher := kafka.NewEventPublisher(cfg.Kafka, appLogger)
	if closer, ok := publisher.(io.Closer); ok {
		defer closer.Close()
	}

	settingsService := settings.NewService(db.GetDB(), appLogger)
	catalogService := catalog.NewService(db.GetDB())
	cartService := cart.NewService(db.GetDB(), redisClient.GetClient(), catalogService, cfg.Cart, appLogger)
	orderService := order.NewService(db.GetDB(), settingsService, publisher, cfg.Restaurant, appLogger)
	tokens := auth.NewJWTManager(cfg.JWT, cfg.App.Name)
	userService := user.NewService(db.GetDB(), cfg, tokens, cartService, appLogger)
	tracking := qrcode.NewGenerator(cfg.Restaurant.PublicBaseURL)

	if cfg.Security.StaffEmail != "" && cfg.Security.StaffPassword != "" {
		if _, err := userService.EnsureStaff(context.Background(), cfg.Security.StaffEmail, cfg.Security.StaffPassword); err != nil {
			appLogger.WithError(err).Warn("Failed to bootstrap staff account")
		}
	}

	server := http.NewServer(cfg, db.GetDB(), redisClient.GetClient(), http.Services{
		Settings:     settingsService,
		Catalog:      catalogService,
		Cart:         cartService,
		Orders:       orderService,
		Chatbot:      chatbot.NewService(settingsService, cfg.Restaurant),
		Users:        userService,
		Reservations: reservation.NewService(db.GetDB(), cfg.Restaurant, appLogger),
		Contact:      contact.NewService(db.GetDB(), appLogger),
		Tokens:       tokens,
		Notifier:     email.NewEmailService(cfg.Email, cfg.Restaurant, appLogger),
		Receipts:     pdf.NewService(cfg.PDF, cfg.Restaurant, tracking),
		Tracking:     tracking,
	}, appLogger)

	appLogger.Info("All systems operational")

	go func() {
		if err := server.Start(); err != nil {
			appLogger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down gracefully")

	// Give in-flight requests 30 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLogger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	appLogger.Info("Server shutdown completed")
}
