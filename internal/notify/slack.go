package notify

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/missionctl/internal/models"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Slack posts review escalations to one Slack channel over the Web API.
type Slack struct {
	client    slackClient
	channelID string
}

// SlackOpts holds parameters for creating a Slack notifier.
type SlackOpts struct {
	BotToken  string
	ChannelID string
	// For testing: inject a mock client instead of the real Slack API.
	Client slackClient
}

// NewSlack creates a Slack notifier.
func NewSlack(opts SlackOpts) (*Slack, error) {
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("notify: slack channel is required")
	}

	s := &Slack{channelID: opts.ChannelID}
	if opts.Client != nil {
		s.client = opts.Client
		return s, nil
	}

	if opts.BotToken == "" {
		return nil, fmt.Errorf("notify: slack bot token is required")
	}
	s.client = slackapi.New(opts.BotToken)
	return s, nil
}

// NotifyReview implements Notifier.
func (s *Slack) NotifyReview(ctx context.Context, t *models.Task, reason string) error {
	_, _, err := s.client.PostMessageContext(ctx, s.channelID,
		slackapi.MsgOptionText(reviewMessage(t, reason), false))
	if err != nil {
		return fmt.Errorf("notify: slack send: %w", err)
	}
	return nil
}
