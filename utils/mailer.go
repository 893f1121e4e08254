package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"verve/config"
	"verve/logger"
)

// SendGridMailer delivers email through the SendGrid v3 API.
type SendGridMailer struct {
	client   *sendgrid.Client
	from     *mail.Email
	fromAddr string
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) (*SendGridMailer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing SENDGRID_API_KEY")
	}
	if strings.TrimSpace(fromEmail) == "" {
		return nil, errors.New("missing SENDGRID_FROM_EMAIL")
	}
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(apiKey),
		from:     mail.NewEmail(fromName, fromEmail),
		fromAddr: fromEmail,
	}, nil
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if strings.TrimSpace(to) == "" {
		return errors.New("sendgrid: recipient required")
	}
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), textBody, htmlBody)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid http %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
	}
	return nil
}

// LogMailer only logs outgoing mail; used when SendGrid is not configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _, _ string) error {
	logger.L().Info("email delivery disabled, dropping message", "to", to, "subject", subject)
	return nil
}

// Mailer is the delivery contract shared by both implementations.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// NewMailer picks SendGrid when credentials are present, the log mailer otherwise.
func NewMailer(cfg *config.Config) Mailer {
	m, err := NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailSender, cfg.EmailFromName)
	if err != nil {
		logger.L().Warn("SendGrid disabled", "reason", err.Error())
		return LogMailer{}
	}
	return m
}
