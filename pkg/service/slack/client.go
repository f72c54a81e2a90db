package slack

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// client implements Service interface
type client struct {
	api *slack.Client

	mu        sync.Mutex
	botUserID string
}

// Option is a functional option for client configuration
type Option func(*[]slack.Option)

// WithAPIURL points the client at a different Slack API endpoint
func WithAPIURL(url string) Option {
	return func(opts *[]slack.Option) {
		*opts = append(*opts, slack.OptionAPIURL(url))
	}
}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	var apiOpts []slack.Option
	for _, opt := range opts {
		opt(&apiOpts)
	}

	return &client{
		api: slack.New(token, apiOpts...),
	}, nil
}

// PostThreadReply posts text into the thread identified by threadTS
func (c *client) PostThreadReply(ctx context.Context, channelID, threadTS, text string) (string, error) {
	options := []slack.MsgOption{
		slack.MsgOptionText(truncateToMaxBytes(text, maxTextBytes), false),
	}
	if threadTS != "" {
		options = append(options, slack.MsgOptionTS(threadTS))
	}

	_, ts, err := c.api.PostMessageContext(ctx, channelID, options...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post Slack message", goerr.V("channelID", channelID), goerr.V("threadTS", threadTS))
	}
	return ts, nil
}

// UpdateMessage replaces the text of an existing message
func (c *client) UpdateMessage(ctx context.Context, channelID, timestamp, text string) error {
	_, _, _, err := c.api.UpdateMessageContext(ctx, channelID, timestamp,
		slack.MsgOptionText(truncateToMaxBytes(text, maxTextBytes), false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to update Slack message", goerr.V("channelID", channelID), goerr.V("timestamp", timestamp))
	}
	return nil
}

// GetBotUserID calls auth.test once and caches the bot user ID
func (c *client) GetBotUserID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.botUserID != "" {
		return c.botUserID, nil
	}

	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get bot user ID")
	}

	c.botUserID = resp.UserID
	return c.botUserID, nil
}
