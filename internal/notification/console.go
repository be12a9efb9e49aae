package notification

import (
	"context"

	"leadrouter/internal/email"
	"leadrouter/internal/leads/ports"
	"leadrouter/platform/logger"
)

// ConsoleNotifier writes notifications to the structured log. It never fails.
type ConsoleNotifier struct {
	log *logger.Logger
}

func NewConsoleNotifier(log *logger.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log}
}

func (n *ConsoleNotifier) SendLeadAlert(_ context.Context, alert ports.LeadAlert) error {
	account := "new prospect"
	if alert.IsExistingAccount {
		account = "existing"
	}
	n.log.Info("lead alert",
		"to", alert.RepName+" <"+alert.RepEmail+">",
		"subject", email.LeadAlertSubject(alert.LeadName, alert.FirmName, alert.LeadScore),
		"leadId", alert.LeadID,
		"leadScore", alert.LeadScore,
		"account", account,
		"dashboardUrl", alert.DashboardURL,
	)
	return nil
}

func (n *ConsoleNotifier) SendStaleReminder(_ context.Context, reminder ports.StaleReminder) error {
	n.log.Info("stale reminder",
		"to", reminder.RepName+" <"+reminder.RepEmail+">",
		"subject", email.StaleReminderSubject(len(reminder.Leads)),
		"staleLeads", len(reminder.Leads),
	)
	return nil
}

func (n *ConsoleNotifier) SendDailyDigest(_ context.Context, digest ports.DailyDigest) error {
	n.log.Info("daily digest",
		"subject", email.DigestSubject(digest.Date),
		"totalLeads", digest.TotalLeads,
		"conversionRate", email.FormatRate(digest.ConversionRate),
		"staleLeads", digest.StaleLeads,
	)
	return nil
}

var _ ports.Notifier = (*ConsoleNotifier)(nil)
