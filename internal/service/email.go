package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, username string) error {
	dashboardURL := fmt.Sprintf("%s/dashboard", s.appURL)
	subject, body := welcomeEmailTemplate(username, dashboardURL, s.appName)
	return s.send(ctx, "welcome", email, subject, body, "url", dashboardURL)
}

func (s *EmailService) SendPasswordResetEmail(ctx context.Context, email, username, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token)
	subject, body := passwordResetEmailTemplate(username, resetURL, s.appName)
	return s.send(ctx, "password_reset", email, subject, body, "url", resetURL)
}

func (s *EmailService) SendAccountDeletedEmail(ctx context.Context, email, username string) error {
	subject, body := accountDeletedEmailTemplate(username, s.appName)
	return s.send(ctx, "account_deleted", email, subject, body)
}

// send delivers through Resend, or only logs in development.
func (s *EmailService) send(ctx context.Context, kind, to, subject, body string, attrs ...any) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", append([]any{"type", kind, "to", to, "subject", subject}, attrs...)...)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
