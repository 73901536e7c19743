package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ezapply/ezapply/internal/config"
	"github.com/resend/resend-go/v2"
	gomail "github.com/wneessen/go-mail"
)

// NewSender picks the delivery backend from config. Development defaults to
// the log sender so no real email leaves the machine.
func NewSender(cfg *config.Config) (Sender, error) {
	switch cfg.EmailProvider {
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("EMAIL_PROVIDER=resend requires RESEND_API_KEY")
		}
		return &resendSender{
			client: resend.NewClient(cfg.ResendAPIKey),
			from:   cfg.EmailFrom,
		}, nil
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("EMAIL_PROVIDER=smtp requires SMTP_HOST")
		}
		return &smtpSender{cfg: cfg}, nil
	case "log":
		return &logSender{}, nil
	default:
		return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
}

type resendSender struct {
	client *resend.Client
	from   string
}

func (s *resendSender) Send(to []string, subject, text, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      to,
		Subject: subject,
		Text:    text,
		Html:    html,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	return err
}

type smtpSender struct {
	cfg *config.Config
}

func (s *smtpSender) Send(to []string, subject, text, html string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.EmailFrom); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, text)
	if html != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, html)
	}

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.SMTPPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.SMTPUsername),
		gomail.WithPassword(s.cfg.SMTPPassword),
	}
	if s.cfg.SMTPTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(s.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSend(msg)
}

type logSender struct{}

func (s *logSender) Send(to []string, subject, text, html string) error {
	slog.Info("email sent (log mode)", "to", to, "subject", subject, "body", text)
	return nil
}
