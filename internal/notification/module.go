// Package notification delivers rep alerts, stale reminders and the leadership
// digest over the configured channel (console log, email, or both).
package notification

import (
	"fmt"

	"leadrouter/internal/email"
	"leadrouter/internal/leads/ports"
	"leadrouter/platform/config"
	"leadrouter/platform/logger"
)

const (
	ChannelConsole = "console"
	ChannelEmail   = "email"
	ChannelBoth    = "both"
)

// New builds the notifier selected by NOTIFICATION_CHANNEL.
func New(cfg config.NotificationConfig, sender email.Sender, log *logger.Logger) (ports.Notifier, error) {
	switch cfg.GetNotificationChannel() {
	case "", ChannelConsole:
		return NewConsoleNotifier(log), nil
	case ChannelEmail:
		return NewEmailNotifier(sender, cfg.GetLeadershipEmail(), log), nil
	case ChannelBoth:
		return NewComposite(
			NewEmailNotifier(sender, cfg.GetLeadershipEmail(), log),
			NewConsoleNotifier(log),
		), nil
	default:
		return nil, fmt.Errorf("unknown notification channel %q", cfg.GetNotificationChannel())
	}
}
