// Package notify delivers review escalations to a chat channel. Delivery is
// best-effort: callers log failures and carry on, a missed ping never blocks
// a task mutation.
package notify

import (
	"context"
	"fmt"

	"github.com/zulandar/missionctl/internal/config"
	"github.com/zulandar/missionctl/internal/models"
)

// Notifier announces that a task entered review and why.
type Notifier interface {
	NotifyReview(ctx context.Context, t *models.Task, reason string) error
}

// Noop discards all notifications.
type Noop struct{}

// NotifyReview implements Notifier.
func (Noop) NotifyReview(ctx context.Context, t *models.Task, reason string) error { return nil }

// FromConfig builds the configured backend.
func FromConfig(cfg config.NotifyConfig) (Notifier, error) {
	switch cfg.Backend {
	case "", "none":
		return Noop{}, nil
	case "discord":
		return NewDiscord(DiscordOpts{BotToken: cfg.Token, ChannelID: cfg.Channel})
	case "slack":
		return NewSlack(SlackOpts{BotToken: cfg.Token, ChannelID: cfg.Channel})
	default:
		return nil, fmt.Errorf("notify: unsupported backend %q", cfg.Backend)
	}
}

// reviewMessage formats the escalation line shared by all backends.
func reviewMessage(t *models.Task, reason string) string {
	who := t.AgentID
	if who == "" {
		who = "unassigned"
	}
	if reason == "" {
		return fmt.Sprintf("Task #%d %q (%s) is waiting in review", t.ID, t.Title, who)
	}
	return fmt.Sprintf("Task #%d %q (%s) needs approval: %s", t.ID, t.Title, who, reason)
}
