package notification

import (
	"context"
	"errors"
	"sort"

	"leadrouter/internal/email"
	"leadrouter/internal/leads/ports"
	"leadrouter/platform/logger"
)

var errNoLeadershipEmail = errors.New("leadership email not configured")

// EmailNotifier renders and sends notifications through an email.Sender.
type EmailNotifier struct {
	sender          email.Sender
	leadershipEmail string
	log             *logger.Logger
}

func NewEmailNotifier(sender email.Sender, leadershipEmail string, log *logger.Logger) *EmailNotifier {
	return &EmailNotifier{sender: sender, leadershipEmail: leadershipEmail, log: log}
}

func (n *EmailNotifier) SendLeadAlert(ctx context.Context, alert ports.LeadAlert) error {
	b := alert.ScoreBreakdown
	return n.sender.SendLeadAlertEmail(ctx, alert.RepEmail, email.LeadAlertData{
		RepName:          alert.RepName,
		LeadName:         alert.LeadName,
		JobTitle:         alert.Title,
		FirmName:         alert.FirmName,
		ResearchInterest: alert.ResearchInterest,
		LeadScore:        alert.LeadScore,
		Breakdown: []email.ScoreLine{
			{Label: "Existing account", Points: b.ExistingAccount},
			{Label: "Firm type", Points: b.FirmType},
			{Label: "AUM tier", Points: b.AUMTier},
			{Label: "Registration type", Points: b.RegistrationType},
			{Label: "Territory match", Points: b.TerritoryMatch},
		},
		IsExistingAccount: alert.IsExistingAccount,
		DashboardURL:      alert.DashboardURL,
	})
}

func (n *EmailNotifier) SendStaleReminder(ctx context.Context, reminder ports.StaleReminder) error {
	rows := make([]email.StaleLeadRow, 0, len(reminder.Leads))
	for _, l := range reminder.Leads {
		rows = append(rows, email.StaleLeadRow{
			Name:            l.Name,
			FirmName:        l.FirmName,
			DaysSinceRouted: l.DaysSinceRouted,
			URL:             l.DashboardURL,
		})
	}
	return n.sender.SendStaleReminderEmail(ctx, reminder.RepEmail, email.StaleReminderData{
		RepName: reminder.RepName,
		Leads:   rows,
	})
}

// SendDailyDigest mails leadership. Without a leadership address the digest is
// skipped with a warning.
func (n *EmailNotifier) SendDailyDigest(ctx context.Context, digest ports.DailyDigest) error {
	if n.leadershipEmail == "" {
		n.log.Warn("no leadership email set for daily digest", "date", digest.Date)
		return errNoLeadershipEmail
	}
	return n.sender.SendDigestEmail(ctx, n.leadershipEmail, email.DigestData{
		Date:           digest.Date,
		TotalLeads:     digest.TotalLeads,
		StaleLeads:     digest.StaleLeads,
		ConversionRate: digest.ConversionRate,
		ByTerritory:    countRows(digest.LeadsByTerritory),
		ByBrand:        countRows(digest.LeadsByBrand),
	})
}

// countRows orders counts descending, then by label.
func countRows(counts map[string]int) []email.CountRow {
	rows := make([]email.CountRow, 0, len(counts))
	for label, n := range counts {
		rows = append(rows, email.CountRow{Label: label, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Label < rows[j].Label
	})
	return rows
}

var _ ports.Notifier = (*EmailNotifier)(nil)
