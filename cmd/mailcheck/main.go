// cmd/mailcheck/main.go sends a test email through the configured SMTP server.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/email"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run ./cmd/mailcheck <recipient>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	emailService := email.NewEmailService(cfg.Email, cfg.Restaurant, logger.New(cfg.Logging))
	if !emailService.Enabled() {
		log.Fatal("SMTP_HOST is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	testEmail := &email.Email{
		To:          []string{os.Args[1]},
		Subject:     "Test email from " + cfg.Restaurant.SiteName,
		HTMLContent: "<h1>Success!</h1><p>SMTP delivery is working.</p>",
		Type:        "test",
	}

	if err := emailService.SendEmail(ctx, testEmail); err != nil {
		log.Fatalf("Send failed: %v", err)
	}

	log.Println("Email sent successfully")
}
