package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/caeleel/friendbook/pkg/agent/tool"
	"github.com/caeleel/friendbook/pkg/domain/model"
	slackmodel "github.com/caeleel/friendbook/pkg/domain/model/slack"
	"github.com/caeleel/friendbook/pkg/service/slack"
	"github.com/caeleel/friendbook/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack/slackevents"
)

const (
	slackPlaceholderText = "Thinking..."
	slackErrorText       = "⚠️ An error occurred while processing your request. Please try again later."
	slackTimeoutText     = "⚠️ That took too long. Please try again."
)

// SlackUseCase answers app mentions and direct messages by chatting on
// behalf of the Slack member
type SlackUseCase struct {
	chat         *ChatUseCase
	slackService slack.Service
}

// NewSlackUseCase creates a new SlackUseCase instance
func NewSlackUseCase(chat *ChatUseCase, slackService slack.Service) *SlackUseCase {
	return &SlackUseCase{
		chat:         chat,
		slackService: slackService,
	}
}

// HandleSlackEvent processes Slack Events API events
func (uc *SlackUseCase) HandleSlackEvent(ctx context.Context, event *slackevents.EventsAPIEvent) error {
	logger := logging.From(ctx)

	msg := slackmodel.NewMessage(ctx, event)
	if msg == nil {
		logger.Warn("unsupported slack event type", "type", event.Type, "innerType", event.InnerEvent.Type)
		return nil
	}

	// Channel messages arrive as app_mention events as well
	if _, ok := event.InnerEvent.Data.(*slackevents.MessageEvent); ok && !msg.IsDirect() {
		logger.Debug("skipping non-direct message", "channel_id", msg.ChannelID())
		return nil
	}

	if err := uc.HandleMessage(ctx, msg); err != nil {
		return goerr.Wrap(err, "failed to handle slack message")
	}
	return nil
}

// HandleMessage runs one chat exchange for msg and answers in its thread
func (uc *SlackUseCase) HandleMessage(ctx context.Context, msg *slackmodel.Message) error {
	logger := logging.From(ctx)

	if msg.IsFromBot() {
		logger.Debug("skipping bot message", "channel_id", msg.ChannelID())
		return nil
	}

	// Skip if bot user ID matches the message sender (prevent infinite loop)
	botUserID, err := uc.slackService.GetBotUserID(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to get bot user ID")
	}
	if msg.UserID() == botUserID {
		logger.Debug("skipping bot's own message", "user_id", msg.UserID())
		return nil
	}

	text := slack.StripMentions(msg.Text())
	if text == "" {
		return nil
	}

	reply := uc.newReplyMessage(msg.ChannelID(), msg.ReplyThreadTS())
	reply.update(ctx, slackPlaceholderText)

	ctx = tool.WithProgress(ctx, func(ctx context.Context, call tool.Call) {
		reply.update(ctx, "🔧 "+tool.Describe(call))
	})

	user := model.SlackUserID(msg.TeamID(), msg.UserID())
	resp, err := uc.chat.ChatInSession(ctx, user, text)
	if err != nil {
		notice := slackErrorText
		if errors.Is(err, ErrRunTimeout) {
			notice = slackTimeoutText
		}
		if postErr := reply.finalize(ctx, notice); postErr != nil {
			logger.Error("failed to post error message to Slack", "error", postErr.Error())
		}
		return goerr.Wrap(err, "failed to chat", goerr.V("user", user))
	}

	finalText := resp.Text
	if resp.ImageURL != "" {
		finalText = "Image file: " + resp.ImageURL
	}
	if err := reply.finalize(ctx, finalText); err != nil {
		return goerr.Wrap(err, "failed to post final response")
	}
	return nil
}

// replyMessage is a single Slack message that shows progress and is
// finally replaced with the answer
type replyMessage struct {
	slackService slack.Service
	channelID    string
	threadTS     string
	messageTS    string
	mu           sync.Mutex
}

func (uc *SlackUseCase) newReplyMessage(channelID, threadTS string) *replyMessage {
	return &replyMessage{
		slackService: uc.slackService,
		channelID:    channelID,
		threadTS:     threadTS,
	}
}

// update posts text, or replaces the text already posted. Failures are only
// logged since progress is best effort.
func (rm *replyMessage) update(ctx context.Context, text string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	logger := logging.From(ctx)
	if rm.messageTS == "" {
		ts, err := rm.slackService.PostThreadReply(ctx, rm.channelID, rm.threadTS, text)
		if err != nil {
			logger.Error("failed to post progress message", "error", err.Error())
			return
		}
		rm.messageTS = ts
		return
	}

	if err := rm.slackService.UpdateMessage(ctx, rm.channelID, rm.messageTS, text); err != nil {
		logger.Error("failed to update progress message", "error", err.Error())
	}
}

// finalize replaces the progress message with text, or posts text when no
// progress message exists
func (rm *replyMessage) finalize(ctx context.Context, text string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.messageTS != "" {
		if err := rm.slackService.UpdateMessage(ctx, rm.channelID, rm.messageTS, text); err != nil {
			return goerr.Wrap(err, "failed to update progress message with final response")
		}
		return nil
	}

	if _, err := rm.slackService.PostThreadReply(ctx, rm.channelID, rm.threadTS, text); err != nil {
		return goerr.Wrap(err, "failed to post final response")
	}
	return nil
}
