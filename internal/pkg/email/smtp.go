// internal/pkg/email/smtp.go
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/sip-sunshine/restaurant-backend/internal/config"
)

// Transport delivers a fully built message
type Transport interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
}

// SMTPTransport sends mail through an SMTP relay
type SMTPTransport struct {
	host   string
	port   int
	auth   smtp.Auth
	useTLS bool
}

// NewSMTPTransport creates an SMTP transport. Authentication is only used
// when a user is configured.
func NewSMTPTransport(cfg config.EmailConfig) *SMTPTransport {
	t := &SMTPTransport{
		host:   cfg.SMTPHost,
		port:   cfg.SMTPPort,
		useTLS: cfg.SMTPUseTLS,
	}
	if cfg.SMTPUser != "" {
		t.auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return t
}

// Send delivers msg. net/smtp has no context support, so ctx is only
// checked before dialing.
func (t *SMTPTransport) Send(ctx context.Context, from string, to []string, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	serverAddr := fmt.Sprintf("%s:%d", t.host, t.port)
	if !t.useTLS {
		return smtp.SendMail(serverAddr, t.auth, from, to, msg)
	}
	return t.sendWithTLS(serverAddr, from, to, msg)
}

// sendWithTLS sends email using an implicit TLS connection
func (t *SMTPTransport) sendWithTLS(serverAddr, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: t.host})
	if err != nil {
		return fmt.Errorf("failed to create TLS connection: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if t.auth != nil {
		if err := client.Auth(t.auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to send DATA command: %w", err)
	}
	if _, err := writer.Write(msg); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write email content: %w", err)
	}
	return writer.Close()
}
