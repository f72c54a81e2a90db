package slack_test

import (
	"context"
	"testing"
	"time"

	"github.com/caeleel/friendbook/pkg/domain/model/slack"
	"github.com/m-mizutani/gt"
	"github.com/slack-go/slack/slackevents"
)

func TestNewMessage_MessageEvent(t *testing.T) {
	ctx := context.Background()

	event := &slackevents.EventsAPIEvent{
		Type:   slackevents.CallbackEvent,
		TeamID: "T123456",
		InnerEvent: slackevents.EventsAPIInnerEvent{
			Type: "message",
			Data: &slackevents.MessageEvent{
				Type:           "message",
				User:           "U123456",
				Text:           "Alex's birthday is March 3",
				TimeStamp:      "1234567890.123456",
				Channel:        "D123456",
				ChannelType:    "im",
				EventTimeStamp: "1234567890.123456",
			},
		},
	}

	msg := slack.NewMessage(ctx, event)
	gt.Value(t, msg).NotNil().Required()

	gt.Value(t, msg.ID()).Equal("1234567890.123456")
	gt.Value(t, msg.ChannelID()).Equal("D123456")
	gt.Value(t, msg.TeamID()).Equal("T123456")
	gt.Value(t, msg.UserID()).Equal("U123456")
	gt.Value(t, msg.Text()).Equal("Alex's birthday is March 3")
	gt.Value(t, msg.ThreadTS()).Equal("")
	gt.Value(t, msg.ReplyThreadTS()).Equal("1234567890.123456")
	gt.Bool(t, msg.IsDirect()).True()
	gt.Bool(t, msg.IsFromBot()).False()
	gt.Bool(t, time.Since(msg.CreatedAt()) < time.Second).True()
}

func TestNewMessage_ThreadMessage(t *testing.T) {
	ctx := context.Background()

	event := &slackevents.EventsAPIEvent{
		Type:   slackevents.CallbackEvent,
		TeamID: "T123456",
		InnerEvent: slackevents.EventsAPIInnerEvent{
			Type: "message",
			Data: &slackevents.MessageEvent{
				Type:            "message",
				User:            "U123456",
				Text:            "Thread reply",
				TimeStamp:       "1234567890.123457",
				ThreadTimeStamp: "1234567890.123456",
				Channel:         "C123456",
				ChannelType:     "channel",
				EventTimeStamp:  "1234567890.123457",
			},
		},
	}

	msg := slack.NewMessage(ctx, event)
	gt.Value(t, msg).NotNil().Required()
	gt.Value(t, msg.ThreadTS()).Equal("1234567890.123456")
	gt.Value(t, msg.ReplyThreadTS()).Equal("1234567890.123456")
	gt.Bool(t, msg.IsDirect()).False()
}

func TestNewMessage_BotMessage(t *testing.T) {
	event := &slackevents.EventsAPIEvent{
		Type: slackevents.CallbackEvent,
		InnerEvent: slackevents.EventsAPIInnerEvent{
			Type: "message",
			Data: &slackevents.MessageEvent{
				Type:      "message",
				BotID:     "B999",
				Text:      "beep",
				TimeStamp: "1.1",
				Channel:   "D1",
			},
		},
	}

	msg := slack.NewMessage(context.Background(), event)
	gt.Value(t, msg).NotNil().Required()
	gt.Bool(t, msg.IsFromBot()).True()
}

func TestNewMessage_AppMention(t *testing.T) {
	event := &slackevents.EventsAPIEvent{
		Type:   slackevents.CallbackEvent,
		TeamID: "T1",
		InnerEvent: slackevents.EventsAPIInnerEvent{
			Type: "app_mention",
			Data: &slackevents.AppMentionEvent{
				User:      "U1",
				Text:      "<@UBOT> who is Sam?",
				TimeStamp: "2.2",
				Channel:   "C1",
			},
		},
	}

	msg := slack.NewMessage(context.Background(), event)
	gt.Value(t, msg).NotNil().Required()
	gt.Value(t, msg.Text()).Equal("<@UBOT> who is Sam?")
	gt.Bool(t, msg.IsDirect()).False()
}

func TestNewMessage_UnsupportedEvent(t *testing.T) {
	event := &slackevents.EventsAPIEvent{
		Type: slackevents.URLVerification,
	}
	gt.Value(t, slack.NewMessage(context.Background(), event)).Nil()
}
