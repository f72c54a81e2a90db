package slack

import (
	"context"
)

// Service provides interface to Slack API for chat replies
type Service interface {
	// PostThreadReply posts a plain text reply in a thread and returns the
	// message timestamp
	PostThreadReply(ctx context.Context, channelID, threadTS, text string) (string, error)

	// UpdateMessage replaces the text of a message identified by channel and timestamp
	UpdateMessage(ctx context.Context, channelID, timestamp, text string) error

	// GetBotUserID retrieves the user ID of the bot itself.
	// The result is cached for the lifetime of the service instance.
	GetBotUserID(ctx context.Context) (string, error)
}
