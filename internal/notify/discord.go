package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/zulandar/missionctl/internal/models"
)

// discordSession abstracts the discordgo methods we use, enabling test mocks.
type discordSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord posts review escalations to one Discord channel over the REST API.
type Discord struct {
	sess      discordSession
	channelID string
}

// DiscordOpts holds parameters for creating a Discord notifier.
type DiscordOpts struct {
	BotToken  string
	ChannelID string
	// For testing: inject a mock session instead of the real Discord API.
	Session discordSession
}

// NewDiscord creates a Discord notifier.
func NewDiscord(opts DiscordOpts) (*Discord, error) {
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("notify: discord channel is required")
	}

	d := &Discord{channelID: opts.ChannelID}
	if opts.Session != nil {
		d.sess = opts.Session
		return d, nil
	}

	if opts.BotToken == "" {
		return nil, fmt.Errorf("notify: discord bot token is required")
	}
	sess, err := discordgo.New("Bot " + opts.BotToken)
	if err != nil {
		return nil, fmt.Errorf("notify: discord session: %w", err)
	}
	d.sess = sess
	return d, nil
}

// NotifyReview implements Notifier.
func (d *Discord) NotifyReview(ctx context.Context, t *models.Task, reason string) error {
	_, err := d.sess.ChannelMessageSend(d.channelID, reviewMessage(t, reason), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("notify: discord send: %w", err)
	}
	return nil
}
