package email

import (
	"context"

	"leadrouter/platform/config"
)

// Sender delivers the rendered lead notification emails.
type Sender interface {
	SendLeadAlertEmail(ctx context.Context, toEmail string, data LeadAlertData) error
	SendStaleReminderEmail(ctx context.Context, toEmail string, data StaleReminderData) error
	SendDigestEmail(ctx context.Context, toEmail string, data DigestData) error
}

// NewSender returns an SMTP sender when SMTP is configured, otherwise a NoopSender.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.IsSMTPEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}

type NoopSender struct{}

func (NoopSender) SendLeadAlertEmail(ctx context.Context, toEmail string, data LeadAlertData) error {
	return nil
}

func (NoopSender) SendStaleReminderEmail(ctx context.Context, toEmail string, data StaleReminderData) error {
	return nil
}

func (NoopSender) SendDigestEmail(ctx context.Context, toEmail string, data DigestData) error {
	return nil
}
