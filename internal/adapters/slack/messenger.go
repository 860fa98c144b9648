// Package slack renders leaderboards as Block Kit messages and talks to the Slack Web API.
package slack

import (
	"context"
	"fmt"
	"net/http"
	"time"

	slackgo "github.com/slack-go/slack"

	"github.com/aocbot/aocbot/pkg/logger"
	"github.com/aocbot/aocbot/pkg/metrics"
)

// Messenger posts and edits messages and opens views with the bot token.
type Messenger struct {
	client     *slackgo.Client
	apiURL     string
	httpClient *http.Client
	log        logger.Logger
}

// NewMessenger creates a Messenger for botToken.
func NewMessenger(botToken string, opts ...Option) *Messenger {
	m := &Messenger{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	clientOpts := []slackgo.Option{slackgo.OptionHTTPClient(m.httpClient)}
	if m.apiURL != "" {
		clientOpts = append(clientOpts, slackgo.OptionAPIURL(m.apiURL))
	}
	m.client = slackgo.New(botToken, clientOpts...)
	return m
}

// Post sends blocks to channel and returns the message timestamp.
func (m *Messenger) Post(ctx context.Context, channel, text string, blocks []slackgo.Block) (string, error) {
	const op = "slack.Post"
	_, ts, err := m.client.PostMessageContext(ctx, channel,
		slackgo.MsgOptionText(text, false),
		slackgo.MsgOptionBlocks(blocks...),
	)
	m.observe(ctx, "chat.postMessage", err)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return ts, nil
}

// Update replaces the message at ts.
func (m *Messenger) Update(ctx context.Context, channel, ts, text string, blocks []slackgo.Block) error {
	const op = "slack.Update"
	_, _, _, err := m.client.UpdateMessageContext(ctx, channel, ts,
		slackgo.MsgOptionText(text, false),
		slackgo.MsgOptionBlocks(blocks...),
	)
	m.observe(ctx, "chat.update", err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete removes the message at ts.
func (m *Messenger) Delete(ctx context.Context, channel, ts string) error {
	const op = "slack.Delete"
	_, _, err := m.client.DeleteMessageContext(ctx, channel, ts)
	m.observe(ctx, "chat.delete", err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// OpenRegistration shows the registration modal to slackID.
func (m *Messenger) OpenRegistration(ctx context.Context, triggerID, slackID string) error {
	const op = "slack.OpenRegistration"
	_, err := m.client.OpenViewContext(ctx, triggerID, RegistrationView(slackID))
	m.observe(ctx, "views.open", err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (m *Messenger) observe(ctx context.Context, method string, err error) {
	if err != nil {
		metrics.RecordSlackCall(method, "error")
		metrics.RecordErrorByComponent("slack", method)
		m.log.Error(ctx, "slack api call failed", logger.String("method", method), logger.Error(err))
		return
	}
	metrics.RecordSlackCall(method, "ok")
	m.log.Debug(ctx, "slack api call", logger.String("method", method))
}
