package service

import (
	"fmt"
	"log/slog"
)

// Sender delivers a single email. Implementations exist for Resend, plain
// SMTP, and a log-only mode for development.
type Sender interface {
	Send(to []string, subject, text, html string) error
}

type EmailService struct {
	sender  Sender
	appURL  string
	appName string
}

func NewEmailService(sender Sender, appURL, appName string) *EmailService {
	return &EmailService{
		sender:  sender,
		appURL:  appURL,
		appName: appName,
	}
}

func (s *EmailService) SendVerificationEmail(email, userID, token string) error {
	verifyURL := fmt.Sprintf("%s/verify-email/%s/%s", s.appURL, userID, token)
	subject, text, html := verificationEmailTemplate(verifyURL, s.appName)

	err := s.sender.Send([]string{email}, subject, text, html)
	if err == nil {
		slog.Info("email sent", "type", "email_verification", "to", email)
	}
	return err
}

func (s *EmailService) SendPasswordResetEmail(email, userID, token string) error {
	resetURL := fmt.Sprintf("%s/password-reset-confirm/%s/%s", s.appURL, userID, token)
	subject, text, html := passwordResetEmailTemplate(resetURL, s.appName)

	err := s.sender.Send([]string{email}, subject, text, html)
	if err == nil {
		slog.Info("email sent", "type", "password_reset", "to", email)
	}
	return err
}

func (s *EmailService) SendAccountDeletedEmail(email, name string) error {
	subject, text, html := accountDeletedEmailTemplate(name, s.appName)

	err := s.sender.Send([]string{email}, subject, text, html)
	if err == nil {
		slog.Info("email sent", "type", "account_deleted", "to", email)
	}
	return err
}
