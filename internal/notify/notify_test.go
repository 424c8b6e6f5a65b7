package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/missionctl/internal/config"
	"github.com/zulandar/missionctl/internal/models"
)

type mockDiscordSession struct {
	channelID string
	content   string
	err       error
}

func (m *mockDiscordSession) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.channelID = channelID
	m.content = content
	if m.err != nil {
		return nil, m.err
	}
	return &discordgo.Message{Content: content}, nil
}

type mockSlackClient struct {
	channelID string
	calls     int
	err       error
}

func (m *mockSlackClient) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.channelID = channelID
	m.calls++
	if m.err != nil {
		return "", "", m.err
	}
	return channelID, "167.23", nil
}

func sampleTask() *models.Task {
	return &models.Task{ID: 12, Title: "rotate keys", AgentID: "agent-sec", Status: models.StatusReview}
}

func TestDiscord_NotifyReview(t *testing.T) {
	sess := &mockDiscordSession{}
	d, err := NewDiscord(DiscordOpts{ChannelID: "C123", Session: sess})
	if err != nil {
		t.Fatalf("NewDiscord(): %v", err)
	}

	if err := d.NotifyReview(context.Background(), sampleTask(), "manual approval"); err != nil {
		t.Fatalf("NotifyReview(): %v", err)
	}
	if sess.channelID != "C123" {
		t.Errorf("channel = %q, want C123", sess.channelID)
	}
	for _, want := range []string{"#12", "rotate keys", "agent-sec", "manual approval"} {
		if !strings.Contains(sess.content, want) {
			t.Errorf("message %q missing %q", sess.content, want)
		}
	}
}

func TestDiscord_NotifyReviewError(t *testing.T) {
	sess := &mockDiscordSession{err: errors.New("rate limited")}
	d, err := NewDiscord(DiscordOpts{ChannelID: "C123", Session: sess})
	if err != nil {
		t.Fatalf("NewDiscord(): %v", err)
	}
	if err := d.NotifyReview(context.Background(), sampleTask(), ""); err == nil {
		t.Error("expected send error to propagate")
	}
}

func TestNewDiscord_Validation(t *testing.T) {
	if _, err := NewDiscord(DiscordOpts{BotToken: "x"}); err == nil {
		t.Error("expected error for missing channel")
	}
	if _, err := NewDiscord(DiscordOpts{ChannelID: "C1"}); err == nil {
		t.Error("expected error for missing token without injected session")
	}
}

func TestSlack_NotifyReview(t *testing.T) {
	client := &mockSlackClient{}
	s, err := NewSlack(SlackOpts{ChannelID: "C9", Client: client})
	if err != nil {
		t.Fatalf("NewSlack(): %v", err)
	}

	if err := s.NotifyReview(context.Background(), sampleTask(), ""); err != nil {
		t.Fatalf("NotifyReview(): %v", err)
	}
	if client.channelID != "C9" || client.calls != 1 {
		t.Errorf("client = %+v", client)
	}
}

func TestNewSlack_Validation(t *testing.T) {
	if _, err := NewSlack(SlackOpts{BotToken: "x"}); err == nil {
		t.Error("expected error for missing channel")
	}
	if _, err := NewSlack(SlackOpts{ChannelID: "C1"}); err == nil {
		t.Error("expected error for missing token without injected client")
	}
}

func TestReviewMessage(t *testing.T) {
	tests := []struct {
		name   string
		task   *models.Task
		reason string
		want   []string
	}{
		{
			name:   "with reason",
			task:   sampleTask(),
			reason: "risky change",
			want:   []string{"needs approval", "risky change"},
		},
		{
			name: "without reason",
			task: sampleTask(),
			want: []string{"waiting in review"},
		},
		{
			name: "unassigned task",
			task: &models.Task{ID: 1, Title: "t"},
			want: []string{"unassigned"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := reviewMessage(tt.task, tt.reason)
			for _, want := range tt.want {
				if !strings.Contains(msg, want) {
					t.Errorf("message %q missing %q", msg, want)
				}
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	n, err := FromConfig(config.NotifyConfig{Backend: "none"})
	if err != nil {
		t.Fatalf("FromConfig(none): %v", err)
	}
	if _, ok := n.(Noop); !ok {
		t.Errorf("FromConfig(none) = %T, want Noop", n)
	}

	if _, err := FromConfig(config.NotifyConfig{Backend: "pager"}); err == nil {
		t.Error("expected error for unsupported backend")
	}

	if _, err := FromConfig(config.NotifyConfig{Backend: "slack", Token: "xoxb", Channel: "C1"}); err != nil {
		t.Errorf("FromConfig(slack): %v", err)
	}
	if _, err := FromConfig(config.NotifyConfig{Backend: "discord", Token: "tok", Channel: "C1"}); err != nil {
		t.Errorf("FromConfig(discord): %v", err)
	}
}
